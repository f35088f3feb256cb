package model

import (
	"gorm.io/gorm"
)

// User пользователь бота. Создается при первом обращении.
// CourseID и SpecializationID всегда обновляются вместе, чтобы пара
// курс/специализация оставалась согласованной.
type User struct {
	gorm.Model

	TgID      int64  `gorm:"column:tg_id;not null;uniqueIndex"` // ID пользователя в Telegram
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	UserName  string `gorm:"column:username"`

	SpecializationID *uint `gorm:"column:specialization_id"` // Выбранная специализация, может отсутствовать
	CourseID         *uint `gorm:"column:course_id"`         // Выбранный курс. У пользователя не больше одного курса
}

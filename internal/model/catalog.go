package model

import (
	"gorm.io/gorm"
)

// Specialization направление обучения, объединяет несколько курсов
type Specialization struct {
	gorm.Model

	Name    string   `gorm:"column:name;not null;uniqueIndex"`  // Название специализации. Уникальность без учета регистра контролируется в catalog.Store
	Courses []Course `gorm:"foreignKey:SpecializationID"`       // Курсы специализации
}

// Course курс внутри специализации. Название уникально в рамках своей специализации,
// одинаковые названия под разными специализациями допустимы.
type Course struct {
	gorm.Model

	Name             string `gorm:"column:name;not null;uniqueIndex:idx_course_name_specialization"`
	SpecializationID uint   `gorm:"column:specialization_id;not null;uniqueIndex:idx_course_name_specialization"`
}

// Project проект (трек мероприятий), который показывается пользователям.
// Для каждого текстового поля хранится и обработанный вариант для показа в чате,
// и исходный (с URL) для выгрузки.
type Project struct {
	gorm.Model

	Title       string `gorm:"column:title;not null;uniqueIndex"` // Заголовок проекта
	Description string `gorm:"column:description;type:text"`      // Описание для показа в чате
	Benefit     string `gorm:"column:benefit;type:text"`          // Чем полезен проект
	Example     string `gorm:"column:example;type:text"`          // Пример работы

	RawDescription string `gorm:"column:raw_description;type:text"` // Исходное описание с URL для выгрузки
	RawBenefit     string `gorm:"column:raw_benefit;type:text"`
	RawExample     string `gorm:"column:raw_example;type:text"`
}

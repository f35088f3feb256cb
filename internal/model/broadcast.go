package model

import (
	"time"

	"gorm.io/gorm"
)

// Broadcast отправленная (или заготовленная) рассылка.
// После отправки запись не меняется, кроме флага IsActive (архивирование).
type Broadcast struct {
	gorm.Model

	Text      string  `gorm:"column:text;type:text;not null"` // Текст сообщения
	ImagePath *string `gorm:"column:image_path"`              // Путь к сохраненному изображению, может отсутствовать
	ProjectID *uint   `gorm:"column:project_id"`              // Проект рассылки. При удалении проекта обнуляется, история сохраняется

	IsSent   bool `gorm:"column:is_sent;not null;default:false"`  // Была ли рассылка полностью отправлена
	IsActive bool `gorm:"column:is_active;not null;default:true"` // Активна или перенесена в архив

	Project *Project                     `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	Courses []BroadcastCourseAssociation `gorm:"foreignKey:BroadcastID;constraint:OnDelete:CASCADE"` // Курсы-получатели, зафиксированные на момент отправки
}

// BroadcastCourseAssociation связь рассылки с курсом-получателем.
// Набор строк фиксируется при отправке и задним числом не пересчитывается.
// ProjectID денормализован для фильтрации выгрузок без лишнего джойна.
type BroadcastCourseAssociation struct {
	BroadcastID uint  `gorm:"column:broadcast_id;primaryKey"`
	CourseID    uint  `gorm:"column:course_id;primaryKey"`
	ProjectID   *uint `gorm:"column:project_id"`

	CreatedAt time.Time
}

// TableName фиксирует имя таблицы связи из схемы
func (BroadcastCourseAssociation) TableName() string {
	return "broadcast_course_association"
}

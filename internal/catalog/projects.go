package catalog

import (
	"errors"
	"fmt"

	"internbot/internal/model"

	"gorm.io/gorm"
)

// ProjectUpdate изменяемые поля проекта. nil означает "оставить как есть" -
// при редактировании админ может пропустить любое поле.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Benefit     *string
	Example     *string

	RawDescription *string
	RawBenefit     *string
	RawExample     *string
}

// CreateProject создает проект. Заголовок уникален.
func (s *Store) CreateProject(project model.Project) (model.Project, error) {
	var existing model.Project
	err := s.db.Where("LOWER(title) = LOWER(?)", project.Title).First(&existing).Error
	if err == nil {
		return model.Project{}, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Project{}, fmt.Errorf("failed to check project: %w", err)
	}

	if err := s.db.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Project{}, ErrAlreadyExists
		}
		return model.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// UpdateProject обновляет только заполненные поля
func (s *Store) UpdateProject(id uint, upd ProjectUpdate) error {
	fields := map[string]interface{}{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Benefit != nil {
		fields["benefit"] = *upd.Benefit
	}
	if upd.Example != nil {
		fields["example"] = *upd.Example
	}
	if upd.RawDescription != nil {
		fields["raw_description"] = *upd.RawDescription
	}
	if upd.RawBenefit != nil {
		fields["raw_benefit"] = *upd.RawBenefit
	}
	if upd.RawExample != nil {
		fields["raw_example"] = *upd.RawExample
	}
	if len(fields) == 0 {
		return nil
	}

	result := s.db.Model(&model.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject удаляет проект. История рассылок сохраняется:
// у рассылок project_id обнуляется по ON DELETE SET NULL.
func (s *Store) DeleteProject(id uint) error {
	result := s.db.Delete(&model.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ProjectByID(id uint) (model.Project, error) {
	var project model.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Project{}, ErrNotFound
		}
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *Store) ListProjects() ([]model.Project, error) {
	var projects []model.Project
	if err := s.db.Order("title ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

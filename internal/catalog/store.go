package catalog

import (
	"errors"
	"fmt"

	"internbot/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyExists запись с таким названием уже есть
	ErrAlreadyExists = errors.New("запись с таким названием уже существует")
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrHasDependents удаление заблокировано, есть зависимые записи
	ErrHasDependents = errors.New("удаление запрещено: есть зависимые записи")
)

// Store справочник специализаций, курсов и проектов
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateSpecialization создает специализацию. Название уникально без учета регистра.
func (s *Store) CreateSpecialization(name string) (model.Specialization, error) {
	var existing model.Specialization
	err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return model.Specialization{}, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Specialization{}, fmt.Errorf("failed to check specialization: %w", err)
	}

	spec := model.Specialization{Name: name}
	if err := s.db.Create(&spec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Specialization{}, ErrAlreadyExists
		}
		return model.Specialization{}, fmt.Errorf("failed to create specialization: %w", err)
	}
	return spec, nil
}

// RenameSpecialization меняет название специализации
func (s *Store) RenameSpecialization(id uint, name string) error {
	var existing model.Specialization
	err := s.db.Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).First(&existing).Error
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check specialization: %w", err)
	}

	result := s.db.Model(&model.Specialization{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("failed to rename specialization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSpecialization удаляет специализацию.
// Удаление блокируется, пока у специализации есть курсы: каскадное удаление
// стерло бы подписки пользователей и историю рассылок.
func (s *Store) DeleteSpecialization(id uint) error {
	var courses int64
	if err := s.db.Model(&model.Course{}).Where("specialization_id = ?", id).Count(&courses).Error; err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}
	if courses > 0 {
		return ErrHasDependents
	}

	result := s.db.Delete(&model.Specialization{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete specialization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListSpecializations() ([]model.Specialization, error) {
	var specs []model.Specialization
	if err := s.db.Order("name ASC").Find(&specs).Error; err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	return specs, nil
}

func (s *Store) SpecializationByID(id uint) (model.Specialization, error) {
	var spec model.Specialization
	if err := s.db.First(&spec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Specialization{}, ErrNotFound
		}
		return model.Specialization{}, fmt.Errorf("failed to get specialization: %w", err)
	}
	return spec, nil
}

// CreateCourse создает курс внутри специализации.
// Название уникально только в рамках своей специализации.
func (s *Store) CreateCourse(specializationID uint, name string) (model.Course, error) {
	if _, err := s.SpecializationByID(specializationID); err != nil {
		return model.Course{}, err
	}

	var existing model.Course
	err := s.db.Where("specialization_id = ? AND LOWER(name) = LOWER(?)", specializationID, name).First(&existing).Error
	if err == nil {
		return model.Course{}, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Course{}, fmt.Errorf("failed to check course: %w", err)
	}

	course := model.Course{Name: name, SpecializationID: specializationID}
	if err := s.db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Course{}, ErrAlreadyExists
		}
		return model.Course{}, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

// DeleteCourse удаляет курс.
// Блокируется, пока на курс подписаны пользователи или курс упоминается
// в истории рассылок: связи рассылок фиксируются навсегда.
func (s *Store) DeleteCourse(id uint) error {
	var subscribers int64
	if err := s.db.Model(&model.User{}).Where("course_id = ?", id).Count(&subscribers).Error; err != nil {
		return fmt.Errorf("failed to count subscribers: %w", err)
	}
	if subscribers > 0 {
		return ErrHasDependents
	}

	var associations int64
	if err := s.db.Model(&model.BroadcastCourseAssociation{}).Where("course_id = ?", id).Count(&associations).Error; err != nil {
		return fmt.Errorf("failed to count broadcast associations: %w", err)
	}
	if associations > 0 {
		return ErrHasDependents
	}

	result := s.db.Delete(&model.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CourseByID(id uint) (model.Course, error) {
	var course model.Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Course{}, ErrNotFound
		}
		return model.Course{}, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *Store) ListCourses() ([]model.Course, error) {
	var courses []model.Course
	if err := s.db.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *Store) ListCoursesBySpecialization(specializationID uint) ([]model.Course, error) {
	var courses []model.Course
	if err := s.db.Where("specialization_id = ?", specializationID).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// SearchCourses возвращает страницу курсов с фильтром по подстроке названия.
// query == "" означает все курсы. Вторым значением возвращается общее
// количество найденных курсов для пагинации.
func (s *Store) SearchCourses(query string, offset, limit int) ([]model.Course, int64, error) {
	base := s.db.Model(&model.Course{})
	if query != "" {
		base = base.Where("name ILIKE ?", "%"+query+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []model.Course
	if err := base.Order("name ASC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search courses: %w", err)
	}
	return courses, total, nil
}

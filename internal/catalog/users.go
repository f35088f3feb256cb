package catalog

import (
	"errors"
	"fmt"

	"internbot/internal/model"

	"gorm.io/gorm"
)

// UpsertUser создает пользователя при первом обращении и обновляет
// имя/фамилию/username из Telegram при последующих
func (s *Store) UpsertUser(tgID int64, firstName, lastName, userName string) (model.User, error) {
	var user model.User
	err := s.db.Where("tg_id = ?", tgID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{
			TgID:      tgID,
			FirstName: firstName,
			LastName:  lastName,
			UserName:  userName,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return model.User{}, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	updates := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"username":   userName,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// AssignCourse записывает пользователю новый курс.
// Курс и его специализация обновляются одним запросом: порознь эти поля
// не пишутся никогда, иначе пара может разъехаться.
func (s *Store) AssignCourse(tgID int64, courseID uint) error {
	course, err := s.CourseByID(courseID)
	if err != nil {
		return err
	}

	result := s.db.Model(&model.User{}).
		Where("tg_id = ?", tgID).
		Updates(map[string]interface{}{
			"course_id":         course.ID,
			"specialization_id": course.SpecializationID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UserByTgID(tgID int64) (model.User, error) {
	var user model.User
	if err := s.db.Where("tg_id = ?", tgID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CourseStat количество подписчиков курса для статистики
type CourseStat struct {
	CourseID uint
	Name     string
	Users    int64
}

// UserRow строка выгрузки пользователей в Excel
type UserRow struct {
	FirstName  string
	LastName   string
	UserName   string
	CourseName string
}

func (s *Store) CountUsers() (int64, error) {
	var total int64
	if err := s.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (s *Store) CountUsersWithoutCourse() (int64, error) {
	var total int64
	if err := s.db.Model(&model.User{}).Where("course_id IS NULL").Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count users without course: %w", err)
	}
	return total, nil
}

// CourseStats распределение пользователей по курсам.
// sortByName true - сортировка по названию, иначе по числу подписчиков.
// search фильтрует курсы по подстроке названия.
func (s *Store) CourseStats(sortByName bool, search string) ([]CourseStat, error) {
	query := s.db.Table("courses").
		Select("courses.id AS course_id, courses.name AS name, COUNT(users.id) AS users").
		Joins("LEFT JOIN users ON users.course_id = courses.id AND users.deleted_at IS NULL").
		Where("courses.deleted_at IS NULL").
		Group("courses.id")

	if search != "" {
		query = query.Where("courses.name ILIKE ?", "%"+search+"%")
	}

	if sortByName {
		query = query.Order("courses.name ASC")
	} else {
		query = query.Order("users DESC")
	}

	var stats []CourseStat
	if err := query.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get course stats: %w", err)
	}
	return stats, nil
}

// ListUserRows данные пользователей с названием курса для выгрузки
func (s *Store) ListUserRows() ([]UserRow, error) {
	var rows []UserRow
	err := s.db.Table("users").
		Select("users.first_name, users.last_name, users.username AS user_name, courses.name AS course_name").
		Joins("LEFT JOIN courses ON courses.id = users.course_id").
		Where("users.deleted_at IS NULL").
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}

package broadcast

import (
	"errors"
	"fmt"
	"time"

	"internbot/internal/model"

	"gorm.io/gorm"
)

// ErrBroadcastNotFound рассылка не найдена
var ErrBroadcastNotFound = errors.New("рассылка не найдена")

// RecordStore хранилище отправленных рассылок и их связей с курсами
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Commit сохраняет отправленную рассылку вместе со строками связи по каждому
// выбранному курсу. Все в одной транзакции: рассылка с частичной привязкой
// курсов занижала бы реальный охват при последующем аудите, поэтому при любой
// ошибке откатывается все.
//
// Если последовательность id отстала от таблицы (например, после
// восстановления из дампа), вставка падает на нарушении уникальности.
// В этом случае последовательность выравнивается по max(id) и коммит
// повторяется один раз.
func (s *RecordStore) Commit(draft Draft) (model.Broadcast, error) {
	broadcast, err := s.commit(draft)
	if err == nil {
		return broadcast, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.Broadcast{}, err
	}

	if err := s.resyncSequence(); err != nil {
		return model.Broadcast{}, err
	}
	return s.commit(draft)
}

func (s *RecordStore) commit(draft Draft) (model.Broadcast, error) {
	broadcast := model.Broadcast{
		Text:      draft.Text,
		ImagePath: draft.ImagePath,
		ProjectID: draft.ProjectID,
		IsSent:    true,
		IsActive:  true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&broadcast).Error; err != nil {
			return fmt.Errorf("failed to create broadcast: %w", err)
		}

		for _, courseID := range draft.SelectedCourseIDs {
			assoc := model.BroadcastCourseAssociation{
				BroadcastID: broadcast.ID,
				CourseID:    courseID,
				ProjectID:   draft.ProjectID,
			}
			if err := tx.Create(&assoc).Error; err != nil {
				return fmt.Errorf("failed to create course association: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return model.Broadcast{}, err
	}
	return broadcast, nil
}

// resyncSequence выравнивает последовательность id по максимальному
// сохраненному id
func (s *RecordStore) resyncSequence() error {
	err := s.db.Exec(
		"SELECT setval(pg_get_serial_sequence('broadcasts', 'id'), (SELECT COALESCE(MAX(id), 1) FROM broadcasts))",
	).Error
	if err != nil {
		return fmt.Errorf("failed to resync broadcasts id sequence: %w", err)
	}
	return nil
}

// ListActive страница активных рассылок, новые сверху
func (s *RecordStore) ListActive(offset, limit int) ([]model.Broadcast, error) {
	return s.list(true, offset, limit)
}

// ListArchived страница архивных рассылок
func (s *RecordStore) ListArchived(offset, limit int) ([]model.Broadcast, error) {
	return s.list(false, offset, limit)
}

func (s *RecordStore) list(active bool, offset, limit int) ([]model.Broadcast, error) {
	var broadcasts []model.Broadcast
	err := s.db.Preload("Courses").
		Where("is_active = ?", active).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&broadcasts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}
	return broadcasts, nil
}

// SetActive переносит рассылку в архив или возвращает из него.
// Единственное изменение, разрешенное для отправленной рассылки.
func (s *RecordStore) SetActive(id uint, active bool) error {
	result := s.db.Model(&model.Broadcast{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update broadcast status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBroadcastNotFound
	}
	return nil
}

// Filter параметры выборки рассылок для отчетов. nil означает без фильтра.
type Filter struct {
	From      *time.Time
	To        *time.Time
	CourseID  *uint
	ProjectID *uint
}

// Summary строка отчета: одна рассылка в разрезе одного курса
type Summary struct {
	BroadcastID  uint
	Created      time.Time
	ProjectTitle string
	CourseName   string
	Recipients   int64
	Text         string
}

// FilterSummaries выборка для отчетов и выгрузки: джойн через таблицу связей,
// количество получателей агрегируется на строку (рассылка, курс, проект)
func (s *RecordStore) FilterSummaries(f Filter) ([]Summary, error) {
	query := s.db.Table("broadcasts AS b").
		Select("b.id AS broadcast_id, b.created_at AS created, COALESCE(p.title, '') AS project_title, c.name AS course_name, COUNT(u.id) AS recipients, b.text AS text").
		Joins("JOIN broadcast_course_association a ON a.broadcast_id = b.id").
		Joins("JOIN courses c ON c.id = a.course_id").
		Joins("LEFT JOIN projects p ON p.id = a.project_id AND p.deleted_at IS NULL").
		Joins("LEFT JOIN users u ON u.course_id = a.course_id AND u.deleted_at IS NULL").
		Where("b.deleted_at IS NULL").
		Group("b.id, b.created_at, b.text, c.id, c.name, p.id, p.title").
		Order("b.created_at DESC")

	if f.From != nil {
		query = query.Where("b.created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("b.created_at < ?", *f.To)
	}
	if f.CourseID != nil {
		query = query.Where("a.course_id = ?", *f.CourseID)
	}
	if f.ProjectID != nil {
		query = query.Where("a.project_id = ?", *f.ProjectID)
	}

	var summaries []Summary
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to filter broadcasts: %w", err)
	}
	return summaries, nil
}

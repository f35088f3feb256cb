package broadcast

import (
	"fmt"

	"internbot/internal/model"

	"gorm.io/gorm"
)

// CourseCount курс с количеством подписчиков на момент запроса
type CourseCount struct {
	CourseID uint
	Name     string
	Total    int
}

// Resolver вычисляет получателей рассылки по набору курсов.
// Только чтение, без побочных эффектов - безопасно вызывать при каждой
// перерисовке предпросмотра.
type Resolver interface {
	Resolve(courseIDs []uint) ([]model.User, error)
	CountByCourse(courseIDs []uint) ([]CourseCount, error)
}

// RecipientResolver реализация Resolver поверх БД
type RecipientResolver struct {
	db *gorm.DB
}

func NewRecipientResolver(db *gorm.DB) *RecipientResolver {
	return &RecipientResolver{db: db}
}

// Resolve возвращает подписчиков перечисленных курсов одним запросом.
// Дедупликация не нужна: у пользователя не больше одного курса.
func (r *RecipientResolver) Resolve(courseIDs []uint) ([]model.User, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var users []model.User
	if err := r.db.Where("course_id IN ?", courseIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	return users, nil
}

// CountByCourse возвращает количество подписчиков каждого курса в порядке
// переданных id. Курс без подписчиков не выбрасывается: админ выбрал его
// явно, и в отчете он должен быть с нулем.
func (r *RecipientResolver) CountByCourse(courseIDs []uint) ([]CourseCount, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var courses []model.Course
	if err := r.db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}

	names := make(map[uint]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}

	type row struct {
		CourseID uint
		Total    int
	}
	var rows []row
	err := r.db.Model(&model.User{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipients: %w", err)
	}

	totals := make(map[uint]int, len(rows))
	for _, row := range rows {
		totals[row.CourseID] = row.Total
	}

	counts := make([]CourseCount, 0, len(courseIDs))
	for _, id := range courseIDs {
		name, ok := names[id]
		if !ok {
			// Курс удалили, пока админ собирал рассылку
			continue
		}
		counts = append(counts, CourseCount{
			CourseID: id,
			Name:     name,
			Total:    totals[id],
		})
	}
	return counts, nil
}

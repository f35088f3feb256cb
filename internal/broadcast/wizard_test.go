package broadcast

import (
	"errors"
	"testing"
	"time"

	"internbot/internal/model"
)

// mockCatalog отдает заранее заданные проекты и курсы
type mockCatalog struct {
	projects map[uint]model.Project
	courses  map[uint]model.Course
}

func (m *mockCatalog) ProjectByID(id uint) (model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return model.Project{}, errors.New("запись не найдена")
	}
	return p, nil
}

func (m *mockCatalog) CourseByID(id uint) (model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return model.Course{}, errors.New("запись не найдена")
	}
	return c, nil
}

type mockMedia struct {
	path string
	err  error
}

func (m *mockMedia) SavePhoto(fileID string) (string, error) {
	return m.path, m.err
}

type mockResolver struct {
	users  map[uint][]model.User // получатели по курсу
	counts map[uint]CourseCount
}

func (m *mockResolver) Resolve(courseIDs []uint) ([]model.User, error) {
	var users []model.User
	for _, id := range courseIDs {
		users = append(users, m.users[id]...)
	}
	return users, nil
}

func (m *mockResolver) CountByCourse(courseIDs []uint) ([]CourseCount, error) {
	counts := make([]CourseCount, 0, len(courseIDs))
	for _, id := range courseIDs {
		counts = append(counts, m.counts[id])
	}
	return counts, nil
}

type mockRecorder struct {
	committed []Draft
	err       error
}

func (m *mockRecorder) Commit(draft Draft) (model.Broadcast, error) {
	if m.err != nil {
		return model.Broadcast{}, m.err
	}
	m.committed = append(m.committed, draft)
	return model.Broadcast{Text: draft.Text, IsSent: true, IsActive: true}, nil
}

type wizardFixture struct {
	wizard   *Wizard
	sender   *mockSender
	recorder *mockRecorder
	media    *mockMedia
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()

	project := model.Project{Title: "Хакатон"}
	project.ID = 1

	catalog := &mockCatalog{
		projects: map[uint]model.Project{
			1: project,
		},
		courses: map[uint]model.Course{
			1: {Name: "PDEV", SpecializationID: 1},
			2: {Name: "QAE", SpecializationID: 2},
		},
	}

	resolver := &mockResolver{
		users: map[uint][]model.User{
			1: usersOfCourse(1, 100, 101, 102),
			2: nil,
		},
		counts: map[uint]CourseCount{
			1: {CourseID: 1, Name: "PDEV", Total: 3},
			2: {CourseID: 2, Name: "QAE", Total: 0},
		},
	}

	sender := &mockSender{}
	recorder := &mockRecorder{}
	media := &mockMedia{path: "media/images/broadcast_1.jpg"}

	wizard, err := NewWizard(Config{
		Sessions: NewSessions(time.Hour, time.Hour),
		Catalog:  catalog,
		Media:    media,
		Resolver: resolver,
		Engine:   NewEngine(sender, 0, nil),
		Records:  recorder,
	})
	if err != nil {
		t.Fatal(err)
	}

	return &wizardFixture{wizard: wizard, sender: sender, recorder: recorder, media: media}
}

func (f *wizardFixture) apply(t *testing.T, chatID int64, ev Event) Outcome {
	t.Helper()
	outcome, err := f.wizard.Apply(chatID, ev)
	if err != nil {
		t.Fatalf("неожиданная ошибка на событии %T: %v", ev, err)
	}
	return outcome
}

func TestWizardHappyPath(t *testing.T) {
	// Текст без изображения, один проект, два курса: с тремя подписчиками и без единого
	f := newWizardFixture(t)
	const chatID = int64(42)

	if out := f.wizard.Start(chatID); out.State != AwaitingText {
		t.Fatalf("мастер должен начаться с AwaitingText, получено %v", out.State)
	}

	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})
	f.apply(t, chatID, ProjectChosen{ProjectID: 1})
	f.apply(t, chatID, ToggleCourse{CourseID: 1})
	f.apply(t, chatID, ToggleCourse{CourseID: 2})

	out := f.apply(t, chatID, FinishSelection{})
	if out.State != Confirming || out.Preview == nil {
		t.Fatalf("ожидался переход в Confirming с предпросмотром, получено %+v", out)
	}
	if out.Preview.Total != 3 || len(out.Preview.Courses) != 2 {
		t.Fatalf("неожиданный предпросмотр: %+v", out.Preview)
	}
	if out.Preview.ProjectTitle != "Хакатон" {
		t.Fatalf("в предпросмотре должен быть заголовок проекта, получено %q", out.Preview.ProjectTitle)
	}

	out = f.apply(t, chatID, Confirm{})
	if out.State != Committed || out.Report == nil {
		t.Fatalf("ожидалось завершение с отчетом, получено %+v", out)
	}
	if out.Report.TotalRecipients != 3 || out.Report.Success != 3 || out.Report.Failed != 0 {
		t.Fatalf("неожиданный отчет: %+v", out.Report)
	}
	if c := out.Report.PerCourse[1]; c.Name != "QAE" || c.Total != 0 {
		t.Fatalf("курс без подписчиков должен остаться в отчете: %+v", c)
	}

	// Ровно одна запись с двумя курсами
	if len(f.recorder.committed) != 1 {
		t.Fatalf("ожидался один коммит, получено %d", len(f.recorder.committed))
	}
	if got := f.recorder.committed[0].SelectedCourseIDs; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("в истории должны быть оба курса в порядке выбора, получено %v", got)
	}

	// Сессия завершена
	if _, ok := f.wizard.Session(chatID); ok {
		t.Fatal("сессия должна быть удалена после завершения")
	}
}

func TestWizardRejectsEmptyText(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)
	f.wizard.Start(chatID)

	out := f.apply(t, chatID, TextEntered{Text: "   \n "})
	if out.Invalid == "" {
		t.Fatal("пустой текст должен быть отклонен")
	}

	session, _ := f.wizard.Session(chatID)
	if session.State != AwaitingText {
		t.Fatalf("состояние не должно меняться, получено %v", session.State)
	}
}

func TestWizardRejectsFinishWithoutCourses(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)
	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})
	f.apply(t, chatID, ProjectChosen{ProjectID: 1})

	out := f.apply(t, chatID, FinishSelection{})
	if out.Invalid == "" {
		t.Fatal("завершение без выбранных курсов должно быть отклонено")
	}

	session, _ := f.wizard.Session(chatID)
	if session.State != AwaitingCourses {
		t.Fatalf("мастер должен остаться в AwaitingCourses, получено %v", session.State)
	}
	if len(f.recorder.committed) != 0 {
		t.Fatal("ничего не должно быть сохранено")
	}
}

func TestWizardPartialDeliveryFailureStillCommits(t *testing.T) {
	// Один из получателей недоступен, рассылка все равно сохраняется
	f := newWizardFixture(t)
	f.sender.failFor = map[int64]bool{101: true}
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})
	f.apply(t, chatID, ProjectChosen{ProjectID: 1})
	f.apply(t, chatID, ToggleCourse{CourseID: 1})

	out := f.apply(t, chatID, FinishSelection{})
	if out.State != Confirming {
		t.Fatalf("ожидался Confirming, получено %v", out.State)
	}

	out = f.apply(t, chatID, Confirm{})
	if out.Report.Success != 2 || out.Report.Failed != 1 {
		t.Fatalf("ожидалось 2/1, получено %d/%d", out.Report.Success, out.Report.Failed)
	}
	if len(f.recorder.committed) != 1 {
		t.Fatal("частичный сбой доставки не должен блокировать сохранение")
	}
	if out.Broadcast == nil || !out.Broadcast.IsSent {
		t.Fatalf("рассылка должна быть сохранена как отправленная: %+v", out.Broadcast)
	}
}

func TestWizardUnknownProjectReprompts(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)
	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})

	out := f.apply(t, chatID, ProjectChosen{ProjectID: 999})
	if out.Invalid == "" {
		t.Fatal("несуществующий проект должен быть отклонен")
	}

	session, _ := f.wizard.Session(chatID)
	if session.State != AwaitingProject {
		t.Fatalf("мастер должен остаться в AwaitingProject, получено %v", session.State)
	}
}

func TestWizardPhotoSaveFailureReprompts(t *testing.T) {
	f := newWizardFixture(t)
	f.media.err = errors.New("сеть недоступна")
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})

	out := f.apply(t, chatID, PhotoReceived{FileID: "file123"})
	if out.Invalid == "" {
		t.Fatal("ошибка сохранения изображения должна вернуть мастер к запросу фото")
	}

	session, _ := f.wizard.Session(chatID)
	if session.State != AwaitingPhoto {
		t.Fatalf("мастер должен остаться в AwaitingPhoto, получено %v", session.State)
	}
	if session.Draft.ImagePath != nil {
		t.Fatal("черновик не должен получить изображение при ошибке сохранения")
	}
}

func TestWizardBackKeepsStickyDraft(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, PhotoReceived{FileID: "file123"})

	// Возврат к шагу фото не стирает уже сохраненное изображение
	out := f.apply(t, chatID, Back{})
	if out.State != AwaitingPhoto {
		t.Fatalf("ожидался возврат в AwaitingPhoto, получено %v", out.State)
	}
	session, _ := f.wizard.Session(chatID)
	if session.Draft.ImagePath == nil {
		t.Fatal("возврат назад не должен стирать собранные поля")
	}
	if session.Draft.Text != "Hi" {
		t.Fatal("текст должен сохраниться в черновике")
	}
}

func TestWizardCancelDiscardsDraft(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})

	out := f.apply(t, chatID, Cancel{})
	if out.State != Cancelled {
		t.Fatalf("ожидалась отмена, получено %v", out.State)
	}
	if _, ok := f.wizard.Session(chatID); ok {
		t.Fatal("черновик должен быть удален при отмене")
	}
	if len(f.recorder.committed) != 0 {
		t.Fatal("отмененная рассылка не должна попадать в историю")
	}
}

func TestWizardCourseSearchAndPagingLiveInDraft(t *testing.T) {
	f := newWizardFixture(t)
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})
	f.apply(t, chatID, ProjectChosen{ProjectID: 1})
	f.apply(t, chatID, SearchCourses{Query: "py"})
	f.apply(t, chatID, ChangePage{Page: 2})
	f.apply(t, chatID, ToggleCourse{CourseID: 1})

	session, _ := f.wizard.Session(chatID)
	if session.Draft.SearchQuery != "py" || session.Draft.Page != 2 {
		t.Fatalf("поиск и страница должны переживать переключение курсов: %+v", session.Draft)
	}

	// Новый поиск сбрасывает страницу
	f.apply(t, chatID, SearchCourses{Query: "java"})
	session, _ = f.wizard.Session(chatID)
	if session.Draft.Page != 0 {
		t.Fatalf("новый поиск должен сбросить страницу, получено %d", session.Draft.Page)
	}
}

func TestWizardCommitFailureEndsSession(t *testing.T) {
	f := newWizardFixture(t)
	f.recorder.err = errors.New("duplicate key value violates unique constraint")
	const chatID = int64(42)

	f.wizard.Start(chatID)
	f.apply(t, chatID, TextEntered{Text: "Hi"})
	f.apply(t, chatID, SkipPhoto{})
	f.apply(t, chatID, ProjectChosen{ProjectID: 1})
	f.apply(t, chatID, ToggleCourse{CourseID: 1})
	f.apply(t, chatID, FinishSelection{})

	outcome, err := f.wizard.Apply(chatID, Confirm{})
	if err == nil {
		t.Fatal("ошибка сохранения должна вернуться наружу")
	}
	if outcome.Report == nil {
		t.Fatal("отчет о доставке должен вернуться даже при ошибке сохранения")
	}
	// Повторное подтверждение разослало бы сообщения еще раз - сессии быть не должно
	if _, ok := f.wizard.Session(chatID); ok {
		t.Fatal("сессия должна быть удалена после попытки коммита")
	}
}

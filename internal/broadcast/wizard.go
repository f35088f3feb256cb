package broadcast

import (
	"errors"
	"fmt"
	"strings"

	"internbot/internal/model"
	"internbot/pkg/logger/interfaces"
)

// ErrNoSession у админа нет начатого мастера рассылки
var ErrNoSession = errors.New("сессия мастера рассылки не найдена")

// Catalog доступ мастера к справочнику для проверки выбранных id
type Catalog interface {
	ProjectByID(id uint) (model.Project, error)
	CourseByID(id uint) (model.Course, error)
}

// Media сохранение изображения рассылки в постоянное хранилище
type Media interface {
	SavePhoto(fileID string) (string, error)
}

// Deliverer рассылает черновик получателям
type Deliverer interface {
	Deliver(draft Draft, recipients []model.User, counts []CourseCount) DeliveryReport
}

// Recorder сохраняет отправленную рассылку
type Recorder interface {
	Commit(draft Draft) (model.Broadcast, error)
}

// Preview сводка черновика для экрана подтверждения
type Preview struct {
	Text         string
	HasImage     bool
	ProjectTitle string
	Courses      []CourseCount
	Total        int
}

// Outcome результат обработки одного события мастером
type Outcome struct {
	State State

	// Invalid текст ошибки валидации. Заполнен - состояние не изменилось,
	// нужно показать ошибку и повторить подсказку текущего шага.
	Invalid string

	// Preview заполняется при переходе в Confirming
	Preview *Preview

	// Report и Broadcast заполняются после подтверждения рассылки
	Report    *DeliveryReport
	Broadcast *model.Broadcast
}

// Config зависимости мастера
type Config struct {
	Sessions *Sessions
	Catalog  Catalog
	Media    Media
	Resolver Resolver
	Engine   Deliverer
	Records  Recorder
	Logger   interfaces.Logger // может быть nil
}

// Wizard пошаговый мастер составления рассылки. Все методы принимают
// chat id админа явно, состояние каждого диалога живет в своей сессии.
type Wizard struct {
	sessions *Sessions
	catalog  Catalog
	media    Media
	resolver Resolver
	engine   Deliverer
	records  Recorder
	log      interfaces.Logger
}

func NewWizard(cfg Config) (*Wizard, error) {
	if cfg.Sessions == nil || cfg.Catalog == nil || cfg.Media == nil ||
		cfg.Resolver == nil || cfg.Engine == nil || cfg.Records == nil {
		return nil, fmt.Errorf("не все зависимости мастера рассылки заданы")
	}

	return &Wizard{
		sessions: cfg.Sessions,
		catalog:  cfg.Catalog,
		media:    cfg.Media,
		resolver: cfg.Resolver,
		engine:   cfg.Engine,
		records:  cfg.Records,
		log:      cfg.Logger,
	}, nil
}

// Start начинает новый мастер, затирая незаконченный черновик, если он был
func (w *Wizard) Start(chatID int64) Outcome {
	w.sessions.Set(chatID, Session{State: AwaitingText})
	return Outcome{State: AwaitingText}
}

// Session текущая сессия мастера админа
func (w *Wizard) Session(chatID int64) (Session, bool) {
	return w.sessions.Get(chatID)
}

// Apply применяет событие к текущему состоянию мастера.
// Ошибки валидации возвращаются через Outcome.Invalid без смены состояния.
func (w *Wizard) Apply(chatID int64, ev Event) (Outcome, error) {
	session, ok := w.sessions.Get(chatID)
	if !ok {
		return Outcome{}, ErrNoSession
	}

	// Отмена доступна на любом шаге до подтверждения, черновик пропадает бесследно
	if _, isCancel := ev.(Cancel); isCancel {
		w.sessions.Delete(chatID)
		return Outcome{State: Cancelled}, nil
	}

	var outcome Outcome
	var err error

	switch session.State {
	case AwaitingText:
		outcome = w.applyText(&session, ev)
	case AwaitingPhoto:
		outcome = w.applyPhoto(&session, ev)
	case AwaitingProject:
		outcome = w.applyProject(&session, ev)
	case AwaitingCourses:
		outcome, err = w.applyCourses(&session, ev)
	case Confirming:
		outcome, err = w.applyConfirm(&session, ev)
	default:
		return Outcome{}, ErrNoSession
	}

	// Завершенный мастер удаляется даже при ошибке сохранения: повторное
	// подтверждение того же черновика разослало бы сообщения еще раз
	switch outcome.State {
	case Committed, Cancelled:
		w.sessions.Delete(chatID)
	default:
		if err == nil {
			w.sessions.Set(chatID, session)
		}
	}
	return outcome, err
}

func (w *Wizard) applyText(session *Session, ev Event) Outcome {
	switch e := ev.(type) {
	case TextEntered:
		// Текст сохраняется как есть, но пустой или состоящий из одних
		// пробелов отбрасывается
		if strings.TrimSpace(e.Text) == "" {
			return Outcome{State: session.State, Invalid: "⚠ Текст сообщения не может быть пустым. Введите текст рассылки:"}
		}
		session.Draft.Text = e.Text
		session.State = AwaitingPhoto
		return Outcome{State: AwaitingPhoto}
	default:
		return Outcome{State: session.State, Invalid: "⚠ Сейчас ожидается текст сообщения для рассылки."}
	}
}

func (w *Wizard) applyPhoto(session *Session, ev Event) Outcome {
	switch e := ev.(type) {
	case PhotoReceived:
		path, err := w.media.SavePhoto(e.FileID)
		if err != nil {
			// Рассылка без изображения по ошибке хуже повторного запроса,
			// поэтому остаемся на шаге и просим прислать фото еще раз
			if w.log != nil {
				w.log.Error("Ошибка сохранения изображения рассылки: ", err)
			}
			return Outcome{State: session.State, Invalid: "⚠ Не удалось сохранить изображение. Отправьте фото еще раз или нажмите /skip."}
		}
		session.Draft.ImagePath = &path
		session.State = AwaitingProject
		return Outcome{State: AwaitingProject}
	case SkipPhoto:
		session.Draft.ImagePath = nil
		session.State = AwaitingProject
		return Outcome{State: AwaitingProject}
	case Back:
		session.State = AwaitingText
		return Outcome{State: AwaitingText}
	default:
		return Outcome{State: session.State, Invalid: "⚠ Отправьте фото или нажмите /skip, если изображение не нужно."}
	}
}

func (w *Wizard) applyProject(session *Session, ev Event) Outcome {
	switch e := ev.(type) {
	case ProjectChosen:
		if _, err := w.catalog.ProjectByID(e.ProjectID); err != nil {
			return Outcome{State: session.State, Invalid: "⚠ Проект не найден. Выберите проект из списка."}
		}
		projectID := e.ProjectID
		session.Draft.ProjectID = &projectID
		session.Draft.SelectedCourseIDs = []uint{}
		session.Draft.SearchQuery = ""
		session.Draft.Page = 0
		session.State = AwaitingCourses
		return Outcome{State: AwaitingCourses}
	case Back:
		session.State = AwaitingPhoto
		return Outcome{State: AwaitingPhoto}
	default:
		return Outcome{State: session.State, Invalid: "⚠ Выберите проект из списка."}
	}
}

func (w *Wizard) applyCourses(session *Session, ev Event) (Outcome, error) {
	switch e := ev.(type) {
	case ToggleCourse:
		if _, err := w.catalog.CourseByID(e.CourseID); err != nil {
			return Outcome{State: session.State, Invalid: "⚠ Курс не найден. Выберите курс из списка."}, nil
		}
		session.Draft.ToggleCourse(e.CourseID)
		return Outcome{State: AwaitingCourses}, nil
	case ChangePage:
		page := e.Page
		if page < 0 {
			page = 0
		}
		session.Draft.Page = page
		return Outcome{State: AwaitingCourses}, nil
	case SearchCourses:
		session.Draft.SearchQuery = strings.TrimSpace(e.Query)
		session.Draft.Page = 0
		return Outcome{State: AwaitingCourses}, nil
	case FinishSelection:
		if len(session.Draft.SelectedCourseIDs) == 0 {
			return Outcome{State: session.State, Invalid: "⚠ Вы не выбрали ни одного курса!"}, nil
		}
		preview, err := w.buildPreview(session.Draft)
		if err != nil {
			return Outcome{}, err
		}
		session.State = Confirming
		return Outcome{State: Confirming, Preview: preview}, nil
	case Back:
		session.State = AwaitingProject
		return Outcome{State: AwaitingProject}, nil
	default:
		return Outcome{State: session.State, Invalid: "⚠ Выберите курсы и нажмите «Завершить выбор»."}, nil
	}
}

func (w *Wizard) applyConfirm(session *Session, ev Event) (Outcome, error) {
	switch ev.(type) {
	case Confirm:
		return w.commit(session.Draft)
	case Back:
		session.State = AwaitingCourses
		return Outcome{State: AwaitingCourses}, nil
	default:
		return Outcome{State: session.State, Invalid: "⚠ Подтвердите отправку или отмените рассылку."}, nil
	}
}

// commit разрешает получателей, рассылает и сохраняет итог.
// Запись в историю создается строго после завершения рассылки: упавший
// посреди цикла процесс не должен оставить запись о якобы доставленной
// рассылке.
func (w *Wizard) commit(draft Draft) (Outcome, error) {
	recipients, err := w.resolver.Resolve(draft.SelectedCourseIDs)
	if err != nil {
		return Outcome{}, err
	}
	counts, err := w.resolver.CountByCourse(draft.SelectedCourseIDs)
	if err != nil {
		return Outcome{}, err
	}

	report := w.engine.Deliver(draft, recipients, counts)

	broadcast, err := w.records.Commit(draft)
	if err != nil {
		// Сообщения уже ушли, откатить рассылку нельзя - возвращаем
		// отчет вместе с ошибкой сохранения
		if w.log != nil {
			w.log.Error("Рассылка отправлена, но не сохранена в истории: ", err)
		}
		return Outcome{State: Committed, Report: &report}, err
	}

	return Outcome{State: Committed, Report: &report, Broadcast: &broadcast}, nil
}

func (w *Wizard) buildPreview(draft Draft) (*Preview, error) {
	counts, err := w.resolver.CountByCourse(draft.SelectedCourseIDs)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c.Total
	}

	preview := &Preview{
		Text:     draft.Text,
		HasImage: draft.ImagePath != nil,
		Courses:  counts,
		Total:    total,
	}

	if draft.ProjectID != nil {
		project, err := w.catalog.ProjectByID(*draft.ProjectID)
		if err == nil {
			preview.ProjectTitle = project.Title
		}
	}
	return preview, nil
}

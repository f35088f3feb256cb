package tg

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/catalog"
	"internbot/internal/infrastructure/logger"
	"internbot/internal/model"
)

// --- Специализации ---

// sendSpecializationAdmin список специализаций с кнопками управления
func (b *Bot) sendSpecializationAdmin(chatID int64) {
	specs, err := b.catalog.ListSpecializations()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	var buttons [][]ButtonData
	for _, spec := range specs {
		buttons = append(buttons, []ButtonData{
			{Text: spec.Name, Data: callbackData(CallBackAction{ActionType: ActionSpec, Op: "ren", ID: int64(spec.ID)})},
			{Text: "🗑", Data: callbackData(CallBackAction{ActionType: ActionSpec, Op: "del", ID: int64(spec.ID)})},
		})
	}
	buttons = append(buttons, []ButtonData{{
		Text: "➕ Добавить специализацию",
		Data: callbackData(CallBackAction{ActionType: ActionSpec, Op: "add"}),
	}})

	msg := tgbotapi.NewMessage(chatID, "🗂 Специализации.\nНажмите на название для переименования:")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) handleSpecCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "add":
		b.setState(chatID, StateAddSpecialization, nil)
		b.sendText(chatID, "Введите название новой специализации:")

	case "ren":
		b.setState(chatID, StateRenameSpecialization, uint(action.ID))
		b.sendText(chatID, "Введите новое название специализации:")

	case "del":
		err := b.catalog.DeleteSpecialization(uint(action.ID))
		switch {
		case errors.Is(err, catalog.ErrHasDependents):
			b.sendText(chatID, "⚠ Нельзя удалить специализацию, пока в ней есть курсы. Сначала удалите курсы.")
		case errors.Is(err, catalog.ErrNotFound):
			b.sendText(chatID, "⚠ Специализация уже удалена.")
		case err != nil:
			logger.Errorf("failed to delete specialization %d: %v", action.ID, err)
			b.sendText(chatID, "⚠ Не удалось удалить специализацию.")
		default:
			b.sendText(chatID, "🗑 Специализация удалена.")
			b.sendSpecializationAdmin(chatID)
		}
	}
}

func (b *Bot) handleAddSpecializationText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		b.sendText(chatID, "⚠ Название не может быть пустым. Введите название специализации:")
		return
	}
	b.clearState(chatID)

	if _, err := b.catalog.CreateSpecialization(name); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			b.sendText(chatID, "⚠ Специализация с таким названием уже есть.")
			return
		}
		logger.Errorf("failed to create specialization: %v", err)
		b.sendText(chatID, "⚠ Не удалось создать специализацию.")
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Специализация «%s» создана.", name))
	b.sendSpecializationAdmin(chatID)
}

func (b *Bot) handleRenameSpecializationText(msg *tgbotapi.Message, state dialogState) {
	chatID := msg.Chat.ID
	specID, ok := state.Data.(uint)
	if !ok {
		b.clearState(chatID)
		return
	}

	name := strings.TrimSpace(msg.Text)
	if name == "" {
		b.sendText(chatID, "⚠ Название не может быть пустым. Введите новое название:")
		return
	}
	b.clearState(chatID)

	if err := b.catalog.RenameSpecialization(specID, name); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			b.sendText(chatID, "⚠ Специализация с таким названием уже есть.")
			return
		}
		logger.Errorf("failed to rename specialization %d: %v", specID, err)
		b.sendText(chatID, "⚠ Не удалось переименовать специализацию.")
		return
	}

	b.sendText(chatID, "✅ Специализация переименована.")
	b.sendSpecializationAdmin(chatID)
}

// --- Курсы ---

// sendCourseAdminSpecChoice управление курсами начинается с выбора специализации
func (b *Bot) sendCourseAdminSpecChoice(chatID int64) {
	specs, err := b.catalog.ListSpecializations()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}
	if len(specs) == 0 {
		b.sendText(chatID, "Сначала создайте специализацию в разделе «🗂 Специализации».")
		return
	}

	var buttons [][]ButtonData
	for _, spec := range specs {
		buttons = append(buttons, []ButtonData{{
			Text: spec.Name,
			Data: callbackData(CallBackAction{ActionType: ActionCourse, Op: "spec", ID: int64(spec.ID)}),
		}})
	}

	msg := tgbotapi.NewMessage(chatID, "📚 Курсы. Выберите специализацию:")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) sendCourseAdmin(chatID int64, specializationID uint) {
	spec, err := b.catalog.SpecializationByID(specializationID)
	if err != nil {
		b.sendText(chatID, "⚠ Специализация не найдена.")
		return
	}

	courses, err := b.catalog.ListCoursesBySpecialization(specializationID)
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	var buttons [][]ButtonData
	for _, course := range courses {
		buttons = append(buttons, []ButtonData{
			{Text: course.Name, Data: callbackData(CallBackAction{ActionType: ActionCourse, Op: "del", ID: int64(course.ID)})},
		})
	}
	buttons = append(buttons,
		[]ButtonData{{
			Text: "➕ Добавить курс",
			Data: callbackData(CallBackAction{ActionType: ActionCourse, Op: "add", ID: int64(specializationID)}),
		}},
		[]ButtonData{{
			Text: "↩️ К специализациям",
			Data: callbackData(CallBackAction{ActionType: ActionCourse, Op: "list"}),
		}},
	)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📚 Курсы специализации «%s».\nНажмите на курс, чтобы удалить его:", spec.Name))
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) handleCourseCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "list":
		b.sendCourseAdminSpecChoice(chatID)

	case "spec":
		b.sendCourseAdmin(chatID, uint(action.ID))

	case "add":
		b.setState(chatID, StateAddCourse, uint(action.ID))
		b.sendText(chatID, "Введите название нового курса:")

	case "del":
		course, err := b.catalog.CourseByID(uint(action.ID))
		if err != nil {
			b.sendText(chatID, "⚠ Курс уже удален.")
			return
		}

		err = b.catalog.DeleteCourse(course.ID)
		switch {
		case errors.Is(err, catalog.ErrHasDependents):
			b.sendText(chatID, "⚠ Нельзя удалить курс: на него подписаны пользователи или он упоминается в истории рассылок.")
		case err != nil:
			logger.Errorf("failed to delete course %d: %v", course.ID, err)
			b.sendText(chatID, "⚠ Не удалось удалить курс.")
		default:
			b.sendText(chatID, fmt.Sprintf("🗑 Курс «%s» удален.", course.Name))
			b.sendCourseAdmin(chatID, course.SpecializationID)
		}
	}
}

func (b *Bot) handleAddCourseText(msg *tgbotapi.Message, state dialogState) {
	chatID := msg.Chat.ID
	specID, ok := state.Data.(uint)
	if !ok {
		b.clearState(chatID)
		return
	}

	name := strings.TrimSpace(msg.Text)
	if name == "" {
		b.sendText(chatID, "⚠ Название не может быть пустым. Введите название курса:")
		return
	}
	b.clearState(chatID)

	if _, err := b.catalog.CreateCourse(specID, name); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			b.sendText(chatID, "⚠ Курс с таким названием уже есть в этой специализации.")
			return
		}
		logger.Errorf("failed to create course: %v", err)
		b.sendText(chatID, "⚠ Не удалось создать курс.")
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Курс «%s» создан.", name))
	b.sendCourseAdmin(chatID, specID)
}

// --- Проекты ---

func (b *Bot) sendProjectAdmin(chatID int64) {
	projects, err := b.catalog.ListProjects()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	var buttons [][]ButtonData
	for _, project := range projects {
		buttons = append(buttons, []ButtonData{
			{Text: project.Title, Data: callbackData(CallBackAction{ActionType: ActionProject, Op: "view", ID: int64(project.ID)})},
			{Text: "✏️", Data: callbackData(CallBackAction{ActionType: ActionProject, Op: "edit", ID: int64(project.ID)})},
			{Text: "🗑", Data: callbackData(CallBackAction{ActionType: ActionProject, Op: "del", ID: int64(project.ID)})},
		})
	}
	buttons = append(buttons, []ButtonData{{
		Text: "➕ Добавить проект",
		Data: callbackData(CallBackAction{ActionType: ActionProject, Op: "add"}),
	}})

	msg := tgbotapi.NewMessage(chatID, "📁 Проекты:")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) handleProjectCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "view":
		b.sendProjectCard(chatID, uint(action.ID))

	case "add":
		b.setState(chatID, StateProjectCreate, projectCreateFlow{})
		b.sendText(chatID, "Введите заголовок проекта:")

	case "edit":
		if _, err := b.catalog.ProjectByID(uint(action.ID)); err != nil {
			b.sendText(chatID, "⚠ Проект не найден.")
			return
		}
		b.setState(chatID, StateProjectEdit, projectEditFlow{ProjectID: uint(action.ID)})
		b.sendText(chatID, "Введите новый заголовок проекта или /skip, чтобы оставить прежний:")

	case "del":
		err := b.catalog.DeleteProject(uint(action.ID))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			b.sendText(chatID, "⚠ Проект уже удален.")
		case err != nil:
			logger.Errorf("failed to delete project %d: %v", action.ID, err)
			b.sendText(chatID, "⚠ Не удалось удалить проект.")
		default:
			// История рассылок при этом не трогается, project_id в ней обнуляется
			b.sendText(chatID, "🗑 Проект удален.")
			b.sendProjectAdmin(chatID)
		}
	}
}

// Подсказки шагов создания и редактирования проекта
var projectStagePrompts = []string{
	"Введите заголовок проекта:",
	"Введите описание проекта:",
	"Чем полезен проект участнику?",
	"Пришлите пример работы (ссылку или текст):",
}

func (b *Bot) handleProjectCreateText(msg *tgbotapi.Message, state dialogState) {
	chatID := msg.Chat.ID
	flow, ok := state.Data.(projectCreateFlow)
	if !ok {
		b.clearState(chatID)
		return
	}

	text := strings.TrimSpace(msg.Text)
	skip := msg.Command() == "skip"

	// Заголовок обязателен, остальные поля можно пропустить
	if flow.Stage == 0 && (skip || text == "") {
		b.sendText(chatID, "⚠ Заголовок обязателен. "+projectStagePrompts[0])
		return
	}
	if skip {
		text = ""
	}

	switch flow.Stage {
	case 0:
		flow.Draft.Title = text
	case 1:
		flow.Draft.Description = text
		flow.Draft.RawDescription = text
	case 2:
		flow.Draft.Benefit = text
		flow.Draft.RawBenefit = text
	case 3:
		flow.Draft.Example = text
		flow.Draft.RawExample = text
	}

	if flow.Stage < 3 {
		flow.Stage++
		b.setState(chatID, StateProjectCreate, flow)
		b.sendText(chatID, projectStagePrompts[flow.Stage]+"\n(/skip — оставить пустым)")
		return
	}

	b.clearState(chatID)
	b.createProject(chatID, flow.Draft)
}

func (b *Bot) createProject(chatID int64, draft model.Project) {
	if _, err := b.catalog.CreateProject(draft); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			b.sendText(chatID, "⚠ Проект с таким заголовком уже есть.")
			return
		}
		logger.Errorf("failed to create project: %v", err)
		b.sendText(chatID, "⚠ Не удалось создать проект.")
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Проект «%s» создан.", draft.Title))
	b.sendProjectAdmin(chatID)
}

func (b *Bot) handleProjectEditText(msg *tgbotapi.Message, state dialogState) {
	chatID := msg.Chat.ID
	flow, ok := state.Data.(projectEditFlow)
	if !ok {
		b.clearState(chatID)
		return
	}

	// /skip оставляет поле без изменений
	if msg.Command() != "skip" {
		text := msg.Text
		switch flow.Stage {
		case 0:
			flow.Update.Title = &text
		case 1:
			flow.Update.Description = &text
			flow.Update.RawDescription = &text
		case 2:
			flow.Update.Benefit = &text
			flow.Update.RawBenefit = &text
		case 3:
			flow.Update.Example = &text
			flow.Update.RawExample = &text
		}
	}

	if flow.Stage < 3 {
		flow.Stage++
		b.setState(chatID, StateProjectEdit, flow)
		b.sendText(chatID, projectStagePrompts[flow.Stage]+"\n(/skip — оставить как есть)")
		return
	}

	b.clearState(chatID)

	if err := b.catalog.UpdateProject(flow.ProjectID, flow.Update); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			b.sendText(chatID, "⚠ Проект с таким заголовком уже есть.")
			return
		}
		logger.Errorf("failed to update project %d: %v", flow.ProjectID, err)
		b.sendText(chatID, "⚠ Не удалось обновить проект.")
		return
	}

	b.sendText(chatID, "✅ Проект обновлен.")
	b.sendProjectCard(chatID, flow.ProjectID)
}

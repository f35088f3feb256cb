package tg

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/broadcast"
	"internbot/internal/config"
	"internbot/internal/infrastructure/logger"
)

type ButtonData struct {
	Text string
	Data string
}

func CreateKeyboard(input []string, buttonsPerRow int) tgbotapi.ReplyKeyboardMarkup {
	var keyboard [][]tgbotapi.KeyboardButton

	for i := 0; i < len(input); i += buttonsPerRow {
		var row []tgbotapi.KeyboardButton
		end := i + buttonsPerRow
		if end > len(input) {
			end = len(input)
		}
		for _, text := range input[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(text))
		}
		keyboard = append(keyboard, row)
	}

	return tgbotapi.NewReplyKeyboard(keyboard...)
}

func CreateInlineKeyboard(buttons [][]ButtonData) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		keyboard = append(keyboard, keyboardRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// userMenuKeyboard постоянная клавиатура пользователя
func userMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := CreateKeyboard([]string{ButtonProjects, ButtonMyCourse, ButtonChangeCourse}, 2)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) sendAdminMenu(chatID int64) {
	buttons := [][]ButtonData{
		{{Text: "📢 Создать рассылку", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "broadcast"})}},
		{
			{Text: "🗂 Специализации", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "specs"})},
			{Text: "📚 Курсы", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "courses"})},
		},
		{{Text: "📁 Проекты", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "projects"})}},
		{
			{Text: "📊 Статистика", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "stats"})},
			{Text: "🗃 Статусы рассылок", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "statuses"})},
		},
		{{Text: "📤 Выгрузка", Data: callbackData(CallBackAction{ActionType: ActionMenu, Op: "export"})}},
	}

	msg := tgbotapi.NewMessage(chatID, "Панель администратора. Выберите раздел:")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

// courseSelectionKeyboard страница курсов для мастера рассылки.
// Выбранные курсы помечаются галочкой, строка навигации снизу.
func (b *Bot) courseSelectionKeyboard(draft broadcast.Draft) (tgbotapi.InlineKeyboardMarkup, int64, error) {
	pageSize := config.File.BroadcastConfig.PageSize

	courses, total, err := b.catalog.SearchCourses(draft.SearchQuery, draft.Page*pageSize, pageSize)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, 0, err
	}

	var buttons [][]ButtonData
	for _, course := range courses {
		label := course.Name
		if draft.HasCourse(course.ID) {
			label = "✅ " + label
		}
		buttons = append(buttons, []ButtonData{{
			Text: label,
			Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "course", ID: int64(course.ID)}),
		}})
	}

	var nav []ButtonData
	if draft.Page > 0 {
		nav = append(nav, ButtonData{
			Text: "⬅️",
			Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "page", Page: draft.Page - 1}),
		})
	}
	lastPage := int((total - 1) / int64(pageSize))
	if total > 0 && draft.Page < lastPage {
		nav = append(nav, ButtonData{
			Text: "➡️",
			Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "page", Page: draft.Page + 1}),
		})
	}
	if len(nav) > 0 {
		buttons = append(buttons, nav)
	}

	buttons = append(buttons,
		[]ButtonData{
			{Text: "🔍 Поиск", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "search"})},
			{Text: "✅ Завершить выбор", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "finish"})},
		},
		[]ButtonData{
			{Text: "↩️ Назад", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "back"})},
			{Text: "❌ Отменить", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "cancel"})},
		},
	)

	return CreateInlineKeyboard(buttons), total, nil
}

// projectChoiceKeyboard список проектов для мастера рассылки
func (b *Bot) projectChoiceKeyboard() (tgbotapi.InlineKeyboardMarkup, error) {
	projects, err := b.catalog.ListProjects()
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}

	var buttons [][]ButtonData
	for _, project := range projects {
		buttons = append(buttons, []ButtonData{{
			Text: project.Title,
			Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "project", ID: int64(project.ID)}),
		}})
	}
	buttons = append(buttons, []ButtonData{
		{Text: "↩️ Назад", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "back"})},
		{Text: "❌ Отменить", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "cancel"})},
	})

	return CreateInlineKeyboard(buttons), nil
}

// confirmKeyboard подтверждение отправки рассылки
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return CreateInlineKeyboard([][]ButtonData{
		{{Text: "📨 Отправить", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "confirm"})}},
		{
			{Text: "↩️ Назад", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "back"})},
			{Text: "❌ Отменить", Data: callbackData(CallBackAction{ActionType: ActionWizard, Op: "cancel"})},
		},
	})
}

// specializationKeyboard клавиатура выбора специализации при регистрации
func (b *Bot) specializationKeyboard() (tgbotapi.InlineKeyboardMarkup, error) {
	specs, err := b.catalog.ListSpecializations()
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}

	var buttons [][]ButtonData
	for _, spec := range specs {
		buttons = append(buttons, []ButtonData{{
			Text: spec.Name,
			Data: callbackData(CallBackAction{ActionType: ActionRegister, Op: "spec", ID: int64(spec.ID)}),
		}})
	}

	return CreateInlineKeyboard(buttons), nil
}

// registrationCourseKeyboard курсы одной специализации при регистрации
func (b *Bot) registrationCourseKeyboard(specializationID uint) (tgbotapi.InlineKeyboardMarkup, error) {
	courses, err := b.catalog.ListCoursesBySpecialization(specializationID)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}

	var buttons [][]ButtonData
	for _, course := range courses {
		buttons = append(buttons, []ButtonData{{
			Text: course.Name,
			Data: callbackData(CallBackAction{ActionType: ActionRegister, Op: "course", ID: int64(course.ID)}),
		}})
	}
	buttons = append(buttons, []ButtonData{{
		Text: "↩️ К специализациям",
		Data: callbackData(CallBackAction{ActionType: ActionRegister, Op: "back"}),
	}})

	return CreateInlineKeyboard(buttons), nil
}

// sendKeyboardError единый ответ при ошибке построения клавиатуры
func (b *Bot) sendKeyboardError(chatID int64, err error) {
	logger.Errorf("failed to build keyboard for %d: %v", chatID, err)
	b.sendText(chatID, fmt.Sprintf("⚠ Не удалось загрузить данные: %v", err))
}

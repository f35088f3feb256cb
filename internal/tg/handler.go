package tg

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/broadcast"
	"internbot/internal/infrastructure/logger"
)

// Кнопки главного меню пользователя
const (
	ButtonProjects     = "🚀 Проекты"
	ButtonChangeCourse = "🔄 Сменить курс"
	ButtonMyCourse     = "👤 Мой курс"
)

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Каждое входящее сообщение обновляет данные пользователя из Telegram
	if _, err := b.catalog.UpsertUser(msg.From.ID, msg.From.FirstName, msg.From.LastName, msg.From.UserName); err != nil {
		logger.Errorf("failed to upsert user %d: %v", msg.From.ID, err)
	}

	switch msg.Command() {
	case "start":
		b.clearState(chatID)
		b.wizard.Apply(chatID, broadcast.Cancel{})
		b.startRegistration(msg)
		return
	case "admin":
		if !b.IsAdmin(chatID) {
			b.sendText(chatID, "Команда доступна только администраторам.")
			return
		}
		b.clearState(chatID)
		b.sendAdminMenu(chatID)
		return
	case "cancel":
		b.clearState(chatID)
		if _, ok := b.wizard.Session(chatID); ok {
			b.wizard.Apply(chatID, broadcast.Cancel{})
			b.sendText(chatID, "❌ Рассылка отменена.")
			return
		}
		b.sendText(chatID, "Действие отменено.")
		return
	}

	// Диалоги CRUD и поиска имеют приоритет над мастером: состояние
	// ставится только из мастера или меню и снимается после ответа
	if state, ok := b.getState(chatID); ok {
		b.handleDialogMessage(msg, state)
		return
	}

	// Активный мастер рассылки забирает текст и фото
	if session, ok := b.wizard.Session(chatID); ok && b.IsAdmin(chatID) {
		b.handleWizardMessage(msg, session)
		return
	}

	switch msg.Text {
	case ButtonProjects:
		b.sendProjectList(chatID)
	case ButtonChangeCourse:
		b.sendSpecializationChoice(chatID)
	case ButtonMyCourse:
		b.sendMyCourse(chatID)
	default:
		b.sendText(chatID, "Не понимаю 🤔 Воспользуйтесь кнопками меню или командой /start.")
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	// Telegram ждет ответа на каждый callback, иначе кнопка "висит"
	if _, err := b.botAPI.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Errorf("failed to answer callback: %v", err)
	}

	action := parseCallback(query.Data)
	if action.ActionType == "" {
		logger.Infof("unknown callback data from %d: %s", chatID, query.Data)
		return
	}

	if action.ActionType == ActionRegister {
		b.handleRegisterCallback(chatID, action)
		return
	}

	// Все остальные действия доступны только админам
	if !b.IsAdmin(chatID) {
		return
	}

	switch action.ActionType {
	case ActionMenu:
		b.handleMenuCallback(chatID, action)
	case ActionWizard:
		b.handleWizardCallback(chatID, action)
	case ActionSpec:
		b.handleSpecCallback(chatID, action)
	case ActionCourse:
		b.handleCourseCallback(chatID, action)
	case ActionProject:
		b.handleProjectCallback(chatID, action)
	case ActionStats:
		b.handleStatsCallback(chatID, action)
	case ActionStatus:
		b.handleStatusCallback(chatID, action)
	case ActionExport:
		b.handleExportCallback(chatID, action)
	default:
		logger.Infof("callback without handler: %s", query.Data)
	}
}

// handleDialogMessage маршрутизирует текст в активный диалог
func (b *Bot) handleDialogMessage(msg *tgbotapi.Message, state dialogState) {
	switch state.Name {
	case StateAddSpecialization:
		b.handleAddSpecializationText(msg)
	case StateRenameSpecialization:
		b.handleRenameSpecializationText(msg, state)
	case StateAddCourse:
		b.handleAddCourseText(msg, state)
	case StateProjectCreate:
		b.handleProjectCreateText(msg, state)
	case StateProjectEdit:
		b.handleProjectEditText(msg, state)
	case StateCourseSearch:
		b.handleCourseSearchText(msg)
	case StateStatsSearch:
		b.handleStatsSearchText(msg)
	default:
		b.clearState(msg.Chat.ID)
	}
}

func (b *Bot) handleMenuCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "broadcast":
		b.startBroadcast(chatID)
	case "specs":
		b.sendSpecializationAdmin(chatID)
	case "courses":
		b.sendCourseAdminSpecChoice(chatID)
	case "projects":
		b.sendProjectAdmin(chatID)
	case "stats":
		b.sendStats(chatID, false, "")
	case "statuses":
		b.sendStatuses(chatID, true, 0)
	case "export":
		b.sendExportMenu(chatID)
	}
}

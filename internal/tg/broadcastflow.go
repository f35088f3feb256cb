package tg

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/broadcast"
	"internbot/internal/infrastructure/logger"
)

// startBroadcast запускает мастер рассылки для админа
func (b *Bot) startBroadcast(chatID int64) {
	outcome := b.wizard.Start(chatID)
	b.renderWizardStep(chatID, outcome)
}

// handleWizardMessage превращает текст или фото в событие мастера
func (b *Bot) handleWizardMessage(msg *tgbotapi.Message, session broadcast.Session) {
	chatID := msg.Chat.ID

	var ev broadcast.Event
	switch {
	case msg.Command() == "skip" && session.State == broadcast.AwaitingPhoto:
		ev = broadcast.SkipPhoto{}
	case len(msg.Photo) > 0:
		// Telegram присылает несколько размеров, берем самый большой
		ev = broadcast.PhotoReceived{FileID: msg.Photo[len(msg.Photo)-1].FileID}
	default:
		ev = broadcast.TextEntered{Text: msg.Text}
	}

	b.applyWizardEvent(chatID, ev)
}

// handleWizardCallback превращает нажатие кнопки в событие мастера
func (b *Bot) handleWizardCallback(chatID int64, action CallBackAction) {
	var ev broadcast.Event
	switch action.Op {
	case "project":
		ev = broadcast.ProjectChosen{ProjectID: uint(action.ID)}
	case "course":
		ev = broadcast.ToggleCourse{CourseID: uint(action.ID)}
	case "page":
		ev = broadcast.ChangePage{Page: action.Page}
	case "search":
		// Запрос приходит следующим текстовым сообщением
		b.setState(chatID, StateCourseSearch, nil)
		b.sendText(chatID, "Введите часть названия курса для поиска.\nПустое сообщение сбрасывает фильтр.")
		return
	case "finish":
		ev = broadcast.FinishSelection{}
	case "back":
		ev = broadcast.Back{}
	case "confirm":
		ev = broadcast.Confirm{}
	case "cancel":
		ev = broadcast.Cancel{}
	default:
		return
	}

	b.applyWizardEvent(chatID, ev)
}

// handleCourseSearchText текст поиска курсов внутри мастера
func (b *Bot) handleCourseSearchText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.clearState(chatID)
	b.applyWizardEvent(chatID, broadcast.SearchCourses{Query: msg.Text})
}

func (b *Bot) applyWizardEvent(chatID int64, ev broadcast.Event) {
	outcome, err := b.wizard.Apply(chatID, ev)
	if err != nil {
		logger.Errorf("broadcast wizard error for %d: %v", chatID, err)

		// Рассылка могла уйти до ошибки сохранения - отчет показываем всегда
		if outcome.Report != nil {
			b.sendText(chatID, reportText(*outcome.Report))
			b.sendText(chatID, "⚠ Рассылка отправлена, но не сохранилась в истории. Сообщите разработчикам.")
			return
		}
		b.sendText(chatID, fmt.Sprintf("⚠ Ошибка: %v", err))
		return
	}

	b.renderWizardStep(chatID, outcome)
}

// renderWizardStep показывает подсказку и клавиатуру текущего шага
func (b *Bot) renderWizardStep(chatID int64, outcome broadcast.Outcome) {
	if outcome.Invalid != "" {
		b.sendText(chatID, outcome.Invalid)
		if outcome.State != broadcast.AwaitingCourses {
			return
		}
		// Для шага выбора курсов перерисовываем клавиатуру после ошибки
	}

	switch outcome.State {
	case broadcast.AwaitingText:
		b.sendText(chatID, "📢 Новая рассылка.\n\nВведите текст сообщения:")

	case broadcast.AwaitingPhoto:
		b.sendText(chatID, "Отправьте изображение для рассылки или нажмите /skip, чтобы отправить без него.")

	case broadcast.AwaitingProject:
		keyboard, err := b.projectChoiceKeyboard()
		if err != nil {
			b.sendKeyboardError(chatID, err)
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Выберите проект, к которому относится рассылка:")
		msg.ReplyMarkup = keyboard
		b.SendMessage(msg)

	case broadcast.AwaitingCourses:
		session, ok := b.wizard.Session(chatID)
		if !ok {
			return
		}
		keyboard, total, err := b.courseSelectionKeyboard(session.Draft)
		if err != nil {
			b.sendKeyboardError(chatID, err)
			return
		}

		text := fmt.Sprintf("Выберите курсы для рассылки.\nВыбрано: %d", len(session.Draft.SelectedCourseIDs))
		if session.Draft.SearchQuery != "" {
			text += fmt.Sprintf("\n🔍 Фильтр: %q (найдено %d)", session.Draft.SearchQuery, total)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = keyboard
		b.SendMessage(msg)

	case broadcast.Confirming:
		if outcome.Preview == nil {
			return
		}
		msg := tgbotapi.NewMessage(chatID, previewText(*outcome.Preview))
		msg.ReplyMarkup = confirmKeyboard()
		b.SendMessage(msg)

	case broadcast.Committed:
		if outcome.Report != nil {
			b.sendText(chatID, reportText(*outcome.Report))
		}

	case broadcast.Cancelled:
		b.sendText(chatID, "❌ Рассылка отменена.")
	}
}

func previewText(preview broadcast.Preview) string {
	var sb strings.Builder
	sb.WriteString("📋 Проверьте рассылку перед отправкой.\n\n")
	sb.WriteString(preview.Text)
	sb.WriteString("\n\n")

	if preview.HasImage {
		sb.WriteString("🖼 С изображением\n")
	}
	if preview.ProjectTitle != "" {
		sb.WriteString("📁 Проект: " + preview.ProjectTitle + "\n")
	}

	sb.WriteString("\n📚 Курсы:\n")
	for _, course := range preview.Courses {
		sb.WriteString(fmt.Sprintf("• %s — %d чел.\n", course.Name, course.Total))
	}
	sb.WriteString(fmt.Sprintf("\n👥 Всего получателей: %d", preview.Total))
	return sb.String()
}

func reportText(report broadcast.DeliveryReport) string {
	var sb strings.Builder
	sb.WriteString("✅ Рассылка завершена!\n\n")
	sb.WriteString(fmt.Sprintf("👥 Получателей: %d\n", report.TotalRecipients))
	sb.WriteString(fmt.Sprintf("📨 Доставлено: %d\n", report.Success))
	sb.WriteString(fmt.Sprintf("⚠ Ошибок: %d\n", report.Failed))

	sb.WriteString("\nПо курсам:\n")
	for _, tally := range report.PerCourse {
		sb.WriteString(fmt.Sprintf("• %s: %d из %d", tally.Name, tally.Success, tally.Total))
		if tally.Failed > 0 {
			sb.WriteString(fmt.Sprintf(" (ошибок: %d)", tally.Failed))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

package tg

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/catalog"
	"internbot/internal/infrastructure/logger"
)

// startRegistration приветствие и выбор специализации
func (b *Bot) startRegistration(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	greeting := fmt.Sprintf(
		"Привет, %s! 👋\n\nЭто бот стажировок и проектов. Здесь можно подписаться на свой курс и получать приглашения на проекты.\n\nВыберите специализацию:",
		msg.From.FirstName,
	)

	keyboard, err := b.specializationKeyboard()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	welcome := tgbotapi.NewMessage(chatID, greeting)
	welcome.ReplyMarkup = keyboard
	b.SendMessage(welcome)
}

// sendSpecializationChoice выбор специализации при смене курса
func (b *Bot) sendSpecializationChoice(chatID int64) {
	keyboard, err := b.specializationKeyboard()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Выберите специализацию:")
	msg.ReplyMarkup = keyboard
	b.SendMessage(msg)
}

func (b *Bot) handleRegisterCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "spec":
		spec, err := b.catalog.SpecializationByID(uint(action.ID))
		if err != nil {
			b.sendText(chatID, "⚠ Специализация не найдена. Начните заново: /start")
			return
		}

		keyboard, err := b.registrationCourseKeyboard(spec.ID)
		if err != nil {
			b.sendKeyboardError(chatID, err)
			return
		}

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Специализация: %s\nТеперь выберите курс:", spec.Name))
		msg.ReplyMarkup = keyboard
		b.SendMessage(msg)

	case "course":
		course, err := b.catalog.CourseByID(uint(action.ID))
		if err != nil {
			b.sendText(chatID, "⚠ Курс не найден. Начните заново: /start")
			return
		}

		if err := b.catalog.AssignCourse(chatID, course.ID); err != nil {
			logger.Errorf("failed to assign course %d to user %d: %v", course.ID, chatID, err)
			b.sendText(chatID, "⚠ Не удалось сохранить курс. Попробуйте еще раз: /start")
			return
		}

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Готово! Вы подписаны на курс «%s».\n\nТеперь вам будут приходить приглашения на проекты вашего курса.", course.Name))
		msg.ReplyMarkup = userMenuKeyboard()
		b.SendMessage(msg)

	case "project":
		b.sendProjectCard(chatID, uint(action.ID))

	case "back":
		b.sendSpecializationChoice(chatID)
	}
}

// sendMyCourse текущая подписка пользователя
func (b *Bot) sendMyCourse(chatID int64) {
	user, err := b.catalog.UserByTgID(chatID)
	if err != nil {
		b.sendText(chatID, "Вы еще не зарегистрированы. Нажмите /start")
		return
	}

	if user.CourseID == nil {
		b.sendText(chatID, "Вы пока не выбрали курс. Нажмите «"+ButtonChangeCourse+"»")
		return
	}

	course, err := b.catalog.CourseByID(*user.CourseID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			b.sendText(chatID, "Ваш курс был удален. Выберите новый: «"+ButtonChangeCourse+"»")
			return
		}
		b.sendKeyboardError(chatID, err)
		return
	}

	spec, err := b.catalog.SpecializationByID(course.SpecializationID)
	specName := ""
	if err == nil {
		specName = spec.Name
	}

	b.sendText(chatID, fmt.Sprintf("👤 Ваша подписка\n\nСпециализация: %s\nКурс: %s", specName, course.Name))
}

// sendProjectList список проектов для пользователя
func (b *Bot) sendProjectList(chatID int64) {
	projects, err := b.catalog.ListProjects()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}
	if len(projects) == 0 {
		b.sendText(chatID, "Пока нет доступных проектов. Загляните позже 🙂")
		return
	}

	var buttons [][]ButtonData
	for _, project := range projects {
		buttons = append(buttons, []ButtonData{{
			Text: project.Title,
			Data: callbackData(CallBackAction{ActionType: ActionRegister, Op: "project", ID: int64(project.ID)}),
		}})
	}

	msg := tgbotapi.NewMessage(chatID, "🚀 Наши проекты. Выберите, чтобы узнать подробнее:")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

// sendProjectCard карточка проекта
func (b *Bot) sendProjectCard(chatID int64, projectID uint) {
	project, err := b.catalog.ProjectByID(projectID)
	if err != nil {
		b.sendText(chatID, "⚠ Проект не найден.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🚀 " + project.Title + "\n")
	if project.Description != "" {
		sb.WriteString("\n" + project.Description + "\n")
	}
	if project.Benefit != "" {
		sb.WriteString("\n💡 Чем полезен:\n" + project.Benefit + "\n")
	}
	if project.Example != "" {
		sb.WriteString("\n📎 Пример:\n" + project.Example + "\n")
	}

	b.sendText(chatID, sb.String())
}

package tg

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"internbot/internal/broadcast"
	"internbot/internal/export"
	"internbot/internal/infrastructure/logger"
	"internbot/internal/model"
	"internbot/internal/utils"
)

// Количество рассылок на странице экрана статусов
const statusPageSize = 5

// --- Статистика ---

// sendStats сводка по пользователям и распределение по курсам
func (b *Bot) sendStats(chatID int64, sortByName bool, search string) {
	total, err := b.catalog.CountUsers()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}
	withoutCourse, err := b.catalog.CountUsersWithoutCourse()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}
	stats, err := b.catalog.CourseStats(sortByName, search)
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика\n\n")
	sb.WriteString(fmt.Sprintf("👥 Всего пользователей: %d\n", total))
	sb.WriteString(fmt.Sprintf("❔ Без курса: %d\n", withoutCourse))
	if search != "" {
		sb.WriteString(fmt.Sprintf("\n🔍 Фильтр: %q\n", search))
	}
	sb.WriteString("\nПо курсам:\n")
	for _, stat := range stats {
		sb.WriteString(fmt.Sprintf("• %s — %d\n", stat.Name, stat.Users))
	}

	buttons := [][]ButtonData{
		{
			{Text: "🔤 По названию", Data: callbackData(CallBackAction{ActionType: ActionStats, Op: "sortname"})},
			{Text: "🔢 По подписчикам", Data: callbackData(CallBackAction{ActionType: ActionStats, Op: "sortusers"})},
		},
		{
			{Text: "🔍 Поиск курса", Data: callbackData(CallBackAction{ActionType: ActionStats, Op: "search"})},
			{Text: "📤 Пользователи в Excel", Data: callbackData(CallBackAction{ActionType: ActionStats, Op: "exportusers"})},
		},
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) handleStatsCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "sortname":
		b.sendStats(chatID, true, "")
	case "sortusers":
		b.sendStats(chatID, false, "")
	case "search":
		b.setState(chatID, StateStatsSearch, nil)
		b.sendText(chatID, "Введите часть названия курса:")
	case "exportusers":
		b.sendUsersExport(chatID)
	}
}

func (b *Bot) handleStatsSearchText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.clearState(chatID)
	b.sendStats(chatID, true, strings.TrimSpace(msg.Text))
}

// --- Статусы рассылок ---

// sendStatuses страница активных или архивных рассылок
func (b *Bot) sendStatuses(chatID int64, active bool, page int) {
	if page < 0 {
		page = 0
	}

	var (
		broadcasts []modelBroadcastList
		err        error
	)
	if active {
		broadcasts, err = b.listStatuses(b.records.ListActive, page)
	} else {
		broadcasts, err = b.listStatuses(b.records.ListArchived, page)
	}
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	title := "🗃 Активные рассылки"
	toggleOp := "archive"
	toggleLabel := "📥 В архив"
	switchLabel := "📂 Показать архив"
	switchOp := "pagearchive"
	if !active {
		title = "🗄 Архив рассылок"
		toggleOp = "restore"
		toggleLabel = "📤 Вернуть из архива"
		switchLabel = "📂 Показать активные"
		switchOp = "pageactive"
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")

	var buttons [][]ButtonData
	for i, bc := range broadcasts {
		number := page*statusPageSize + i + 1
		sb.WriteString(fmt.Sprintf("%d) #%d от %s\n%s\n\n",
			number, bc.ID, bc.Created.Format("02.01.2006 15:04"), utils.TruncateText(bc.Text, 100)))

		buttons = append(buttons, []ButtonData{{
			Text: fmt.Sprintf("%s #%d", toggleLabel, bc.ID),
			Data: callbackData(CallBackAction{ActionType: ActionStatus, Op: toggleOp, ID: int64(bc.ID), Page: page}),
		}})
	}
	if len(broadcasts) == 0 {
		sb.WriteString("Пусто.\n")
	}

	var nav []ButtonData
	pageOp := "pageactive"
	if !active {
		pageOp = "pagearchive"
	}
	if page > 0 {
		nav = append(nav, ButtonData{Text: "⬅️", Data: callbackData(CallBackAction{ActionType: ActionStatus, Op: pageOp, Page: page - 1})})
	}
	if len(broadcasts) == statusPageSize {
		nav = append(nav, ButtonData{Text: "➡️", Data: callbackData(CallBackAction{ActionType: ActionStatus, Op: pageOp, Page: page + 1})})
	}
	if len(nav) > 0 {
		buttons = append(buttons, nav)
	}
	buttons = append(buttons, []ButtonData{{
		Text: switchLabel,
		Data: callbackData(CallBackAction{ActionType: ActionStatus, Op: switchOp, Page: 0}),
	}})

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

// modelBroadcastList локальное представление строки списка статусов
type modelBroadcastList struct {
	ID      uint
	Created time.Time
	Text    string
}

func (b *Bot) listStatuses(list func(offset, limit int) ([]model.Broadcast, error), page int) ([]modelBroadcastList, error) {
	broadcasts, err := list(page*statusPageSize, statusPageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]modelBroadcastList, 0, len(broadcasts))
	for _, bc := range broadcasts {
		rows = append(rows, modelBroadcastList{ID: bc.ID, Created: bc.CreatedAt, Text: bc.Text})
	}
	return rows, nil
}

func (b *Bot) handleStatusCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "archive", "restore":
		active := action.Op == "restore"
		if err := b.records.SetActive(uint(action.ID), active); err != nil {
			logger.Errorf("failed to update broadcast %d status: %v", action.ID, err)
			b.sendText(chatID, "⚠ Не удалось изменить статус рассылки.")
			return
		}
		// После переноса перерисовываем список, из которого рассылка ушла
		b.sendStatuses(chatID, !active, action.Page)

	case "pageactive":
		b.sendStatuses(chatID, true, action.Page)

	case "pagearchive":
		b.sendStatuses(chatID, false, action.Page)
	}
}

// --- Выгрузка ---

func (b *Bot) sendExportMenu(chatID int64) {
	buttons := [][]ButtonData{
		{{Text: "👥 Пользователи", Data: callbackData(CallBackAction{ActionType: ActionExport, Op: "users"})}},
		{{Text: "📢 Рассылки", Data: callbackData(CallBackAction{ActionType: ActionExport, Op: "broadcasts"})}},
	}

	msg := tgbotapi.NewMessage(chatID, "📤 Что выгрузить в Excel?")
	msg.ReplyMarkup = CreateInlineKeyboard(buttons)
	b.SendMessage(msg)
}

func (b *Bot) handleExportCallback(chatID int64, action CallBackAction) {
	switch action.Op {
	case "users":
		b.sendUsersExport(chatID)
	case "broadcasts":
		b.sendBroadcastsExport(chatID)
	}
}

func (b *Bot) sendUsersExport(chatID int64) {
	rows, err := b.catalog.ListUserRows()
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	data, err := export.UsersWorkbook(rows)
	if err != nil {
		logger.Errorf("failed to build users workbook: %v", err)
		b.sendText(chatID, "⚠ Не удалось сформировать файл.")
		return
	}

	b.sendDocument(chatID, fmt.Sprintf("users_%s.xlsx", time.Now().Format("2006-01-02")), data)
}

func (b *Bot) sendBroadcastsExport(chatID int64) {
	summaries, err := b.records.FilterSummaries(broadcast.Filter{})
	if err != nil {
		b.sendKeyboardError(chatID, err)
		return
	}

	data, err := export.BroadcastsWorkbook(summaries)
	if err != nil {
		logger.Errorf("failed to build broadcasts workbook: %v", err)
		b.sendText(chatID, "⚠ Не удалось сформировать файл.")
		return
	}

	b.sendDocument(chatID, fmt.Sprintf("broadcasts_%s.xlsx", time.Now().Format("2006-01-02")), data)
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	b.SendMessage(doc)
}

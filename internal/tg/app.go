package tg

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"

	"internbot/internal/broadcast"
	"internbot/internal/catalog"
	"internbot/internal/config"
	"internbot/internal/infrastructure/db"
	"internbot/internal/infrastructure/logger"
)

var TelegramBot *Bot

// Bot связывает Telegram API со слоями каталога и рассылок.
type Bot struct {
	botAPI  *tgbotapi.BotAPI
	catalog *catalog.Store
	records *broadcast.RecordStore
	wizard  *broadcast.Wizard

	// Состояния диалогов вне мастера рассылки (CRUD справочников,
	// регистрация). Ключ — chat_id, живут столько же, сколько сессии мастера.
	states *gocache.Cache

	admins map[int64]struct{}
}

func InitTelegramBot() error {
	botAPI, err := tgbotapi.NewBotAPI(config.File.TelegramConfig.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot api: %w", err)
	}

	bcConf := config.File.BroadcastConfig

	transport := NewTransport(botAPI)

	media, err := broadcast.NewMediaStore(bcConf.MediaDir, transport)
	if err != nil {
		return fmt.Errorf("failed to init media store: %w", err)
	}

	store := catalog.NewStore(db.DB)
	records := broadcast.NewRecordStore(db.DB)
	resolver := broadcast.NewRecipientResolver(db.DB)
	engine := broadcast.NewEngine(transport, bcConf.SendPerSecond, logger.Log)

	ttl := time.Duration(bcConf.SessionTTLHour) * time.Hour
	sessions := broadcast.NewSessions(ttl, ttl)

	wizard, err := broadcast.NewWizard(broadcast.Config{
		Sessions: sessions,
		Catalog:  store,
		Media:    media,
		Resolver: resolver,
		Engine:   engine,
		Records:  records,
		Logger:   logger.Log,
	})
	if err != nil {
		return fmt.Errorf("failed to init wizard: %w", err)
	}

	admins := make(map[int64]struct{}, len(config.File.TelegramConfig.AdminIDs))
	for _, id := range config.File.TelegramConfig.AdminIDs {
		admins[id] = struct{}{}
	}

	TelegramBot = &Bot{
		botAPI:  botAPI,
		catalog: store,
		records: records,
		wizard:  wizard,
		states:  gocache.New(ttl, ttl),
		admins:  admins,
	}

	logger.Infof("Authorized on account %s", botAPI.Self.UserName)

	go TelegramBot.HandleUpdates()

	return nil
}

// HandleUpdates главный цикл обработки входящих обновлений.
func (b *Bot) HandleUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.botAPI.GetUpdatesChan(u)

	for update := range updates {
		go b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic while handling update: %v", r)
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) IsAdmin(chatID int64) bool {
	_, ok := b.admins[chatID]
	return ok
}

// SendMessage отправляет сообщение, ошибку логирует и возвращает.
func (b *Bot) SendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.botAPI.Send(msg); err != nil {
		logger.Errorf("failed to send message: %v", err)
		return err
	}
	return nil
}

// SendAllAdmins отправляет сообщение каждому админу из конфига
func (b *Bot) SendAllAdmins(text string) {
	for id := range b.admins {
		b.sendText(id, text)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.SendMessage(tgbotapi.NewMessage(chatID, text))
}

// Состояния диалогов вне мастера.

func (b *Bot) setState(chatID int64, state string, data any) {
	b.states.SetDefault(stateKey(chatID), dialogState{Name: state, Data: data})
}

func (b *Bot) getState(chatID int64) (dialogState, bool) {
	v, ok := b.states.Get(stateKey(chatID))
	if !ok {
		return dialogState{}, false
	}
	st, ok := v.(dialogState)
	return st, ok
}

func (b *Bot) clearState(chatID int64) {
	b.states.Delete(stateKey(chatID))
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("%d", chatID)
}

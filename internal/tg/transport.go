package tg

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Transport адаптер доставки сообщений поверх Telegram Bot API.
// Реализует broadcast.Sender и broadcast.FileDownloader, чтобы движок
// рассылки не зависел от telegram-библиотеки.
type Transport struct {
	api *tgbotapi.BotAPI
}

func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

func (t *Transport) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.api.Send(msg)
	return err
}

func (t *Transport) SendPhoto(chatID int64, photoPath string, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(photoPath))
	photo.Caption = caption
	_, err := t.api.Send(photo)
	return err
}

// DownloadFile скачивает файл с серверов Telegram по file_id.
// Вторым значением возвращается расширение исходного файла.
func (t *Transport) DownloadFile(fileID string) ([]byte, string, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file info: %w", err)
	}

	resp, err := http.Get(file.Link(t.api.Token))
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file body: %w", err)
	}

	return data, filepath.Ext(file.FilePath), nil
}

package broadcast

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileDownloader скачивает файл из Telegram по его file_id.
// Возвращает содержимое и расширение исходного файла (с точкой), если оно известно.
type FileDownloader interface {
	DownloadFile(fileID string) (data []byte, ext string, err error)
}

// MediaStore сохраняет изображения рассылок в локальную директорию.
// file_id Telegram со временем протухает, поэтому изображение скачивается
// сразу и в черновике хранится локальный путь.
type MediaStore struct {
	dir        string
	downloader FileDownloader
}

// NewMediaStore создает хранилище, директория создается при старте
func NewMediaStore(dir string, downloader FileDownloader) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для изображений: %w", err)
	}
	return &MediaStore{dir: dir, downloader: downloader}, nil
}

// SavePhoto скачивает изображение и сохраняет его под именем
// broadcast_<unix_timestamp><ext>. Без расширения у исходного файла
// используется .jpg.
func (m *MediaStore) SavePhoto(fileID string) (string, error) {
	data, ext, err := m.downloader.DownloadFile(fileID)
	if err != nil {
		return "", fmt.Errorf("не удалось скачать изображение: %w", err)
	}

	if ext == "" {
		ext = ".jpg"
	}

	path := filepath.Join(m.dir, fmt.Sprintf("broadcast_%d%s", time.Now().Unix(), ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("не удалось сохранить изображение: %w", err)
	}
	return path, nil
}

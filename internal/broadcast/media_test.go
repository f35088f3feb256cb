package broadcast

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type mockDownloader struct {
	data []byte
	ext  string
	err  error
}

func (m *mockDownloader) DownloadFile(fileID string) ([]byte, string, error) {
	return m.data, m.ext, m.err
}

func TestSavePhotoWritesFileWithTimestampName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir, &mockDownloader{data: []byte("png-data"), ext: ".png"})
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.SavePhoto("file123")
	if err != nil {
		t.Fatal(err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "broadcast_") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("неожиданное имя файла: %s", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-data" {
		t.Fatalf("содержимое файла не совпадает: %q", data)
	}
}

func TestSavePhotoDefaultsToJpg(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir, &mockDownloader{data: []byte("data")})
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.SavePhoto("file123")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("без расширения должен использоваться .jpg, получено %s", path)
	}
}

func TestSavePhotoDownloadError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewMediaStore(dir, &mockDownloader{err: errors.New("file is temporarily unavailable")})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.SavePhoto("file123"); err == nil {
		t.Fatal("ошибка скачивания должна вернуться наружу")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatal("при ошибке скачивания файлов появиться не должно")
	}
}

func TestNewMediaStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media", "images")
	if _, err := NewMediaStore(dir, &mockDownloader{}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatal("директория для изображений должна быть создана")
	}
}

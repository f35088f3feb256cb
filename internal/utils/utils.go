package utils

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// InitGlobalLocationTime устанавливает часовой пояс по умолчанию
// для глобальной переменной time.Local
func InitGlobalLocationTime() error {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		return fmt.Errorf("ошибка при смене локации на %s: %w", "Europe/Moscow", err)
	}
	time.Local = loc
	return nil
}

// TruncateText обрезает текст до limit символов, добавляя многоточие.
// Используется при показе длинных текстов рассылок в списках.
func TruncateText(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

// ParseDate пытается распарсить дату в нескольких привычных форматах
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{"02.01.2006", "2.1.2006", "02.01.06", "2.1.06", "2006-01-02"}

	for _, format := range formats {
		parsedDate, err := time.Parse(format, dateStr)
		if err == nil {
			return parsedDate, nil
		}
	}

	return time.Time{}, fmt.Errorf("не удалось распарсить дату: %s", dateStr)
}

package export

import (
	"bytes"
	"testing"
	"time"

	"internbot/internal/broadcast"
	"internbot/internal/catalog"

	"github.com/xuri/excelize/v2"
)

func TestUsersWorkbook(t *testing.T) {
	rows := []catalog.UserRow{
		{FirstName: "Иван", LastName: "Петров", UserName: "ivan", CourseName: "Python-разработчик (PDEV)"},
		{FirstName: "Анна", UserName: "anna", CourseName: ""},
	}

	data, err := UsersWorkbook(rows)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Пользователи", "A1"); got != "Имя" {
		t.Fatalf("неожиданный заголовок: %q", got)
	}
	if got, _ := f.GetCellValue("Пользователи", "D2"); got != "Python-разработчик (PDEV)" {
		t.Fatalf("неожиданное значение курса: %q", got)
	}
	if got, _ := f.GetCellValue("Пользователи", "A3"); got != "Анна" {
		t.Fatalf("неожиданное имя во второй строке: %q", got)
	}
}

func TestBroadcastsWorkbook(t *testing.T) {
	created := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)
	summaries := []broadcast.Summary{
		{BroadcastID: 1, Created: created, ProjectTitle: "Хакатон", CourseName: "PDEV", Recipients: 3, Text: "Hi"},
		{BroadcastID: 1, Created: created, ProjectTitle: "Хакатон", CourseName: "QAE", Recipients: 0, Text: "Hi"},
	}

	data, err := BroadcastsWorkbook(summaries)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Рассылки", "A2"); got != "14.03.2025 12:30" {
		t.Fatalf("неожиданная дата: %q", got)
	}
	if got, _ := f.GetCellValue("Рассылки", "C3"); got != "QAE" {
		t.Fatalf("неожиданный курс: %q", got)
	}
	if got, _ := f.GetCellValue("Рассылки", "D3"); got != "0" {
		t.Fatalf("курс без получателей должен попасть в выгрузку с нулем: %q", got)
	}
}

package export

import (
	"fmt"

	"internbot/internal/broadcast"
	"internbot/internal/catalog"

	"github.com/xuri/excelize/v2"
)

// Выгрузки в Excel для админов: отчет по пользователям и отчет по рассылкам.
// Файл собирается в памяти и отправляется документом в чат.

const (
	usersSheet      = "Пользователи"
	broadcastsSheet = "Рассылки"
)

// UsersWorkbook формирует отчет по пользователям с названием курса
func UsersWorkbook(rows []catalog.UserRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", usersSheet)

	headers := []string{"Имя", "Фамилия", "Username", "Курс"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(usersSheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{row.FirstName, row.LastName, row.UserName, row.CourseName}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(usersSheet, cell, v)
		}
	}

	f.SetColWidth(usersSheet, "A", "C", 20)
	f.SetColWidth(usersSheet, "D", "D", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build users workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BroadcastsWorkbook формирует отчет по рассылкам: дата, проект, курс,
// количество получателей и текст сообщения. Одна строка на пару
// рассылка-курс, как в таблице связей.
func BroadcastsWorkbook(summaries []broadcast.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", broadcastsSheet)

	headers := []string{"Дата", "Проект", "Курс", "Получателей", "Текст"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(broadcastsSheet, cell, h)
	}

	for i, s := range summaries {
		values := []interface{}{
			s.Created.Format("02.01.2006 15:04"),
			s.ProjectTitle,
			s.CourseName,
			s.Recipients,
			s.Text,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(broadcastsSheet, cell, v)
		}
	}

	f.SetColWidth(broadcastsSheet, "A", "A", 18)
	f.SetColWidth(broadcastsSheet, "B", "C", 28)
	f.SetColWidth(broadcastsSheet, "D", "D", 14)
	f.SetColWidth(broadcastsSheet, "E", "E", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build broadcasts workbook: %w", err)
	}
	return buf.Bytes(), nil
}

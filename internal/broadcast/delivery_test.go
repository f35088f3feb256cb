package broadcast

import (
	"errors"
	"strings"
	"testing"

	"internbot/internal/model"
)

type sentCall struct {
	kind    string // "text" или "photo"
	chatID  int64
	caption string
}

// mockSender записывает вызовы и падает для заданных chat id
type mockSender struct {
	calls   []sentCall
	failFor map[int64]bool
}

func (m *mockSender) SendText(chatID int64, text string) error {
	if m.failFor[chatID] {
		return errors.New("bot was blocked by the user")
	}
	m.calls = append(m.calls, sentCall{kind: "text", chatID: chatID})
	return nil
}

func (m *mockSender) SendPhoto(chatID int64, photoPath string, caption string) error {
	if m.failFor[chatID] {
		return errors.New("bot was blocked by the user")
	}
	m.calls = append(m.calls, sentCall{kind: "photo", chatID: chatID, caption: caption})
	return nil
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(s string) *string { return &s }

func usersOfCourse(courseID uint, tgIDs ...int64) []model.User {
	users := make([]model.User, 0, len(tgIDs))
	for _, id := range tgIDs {
		users = append(users, model.User{TgID: id, CourseID: uintPtr(courseID)})
	}
	return users
}

func TestDeliverCountsZeroUserCourse(t *testing.T) {
	// Курс с тремя подписчиками и курс без единого.
	// C2 не должен пропасть из отчета.
	sender := &mockSender{}
	engine := NewEngine(sender, 0, nil)

	recipients := usersOfCourse(1, 100, 101, 102)
	counts := []CourseCount{
		{CourseID: 1, Name: "PDEV", Total: 3},
		{CourseID: 2, Name: "QAE", Total: 0},
	}

	report := engine.Deliver(Draft{Text: "Hi"}, recipients, counts)

	if report.TotalRecipients != 3 || report.Success != 3 || report.Failed != 0 {
		t.Fatalf("неожиданные итоги: %+v", report)
	}
	if len(report.PerCourse) != 2 {
		t.Fatalf("в отчете должно быть 2 курса, получено %d", len(report.PerCourse))
	}
	if c := report.PerCourse[0]; c.Name != "PDEV" || c.Success != 3 || c.Total != 3 || c.Failed != 0 {
		t.Fatalf("неожиданный счетчик PDEV: %+v", c)
	}
	if c := report.PerCourse[1]; c.Name != "QAE" || c.Success != 0 || c.Total != 0 || c.Failed != 0 {
		t.Fatalf("неожиданный счетчик QAE: %+v", c)
	}
}

func TestDeliverPartialFailureDoesNotAbort(t *testing.T) {
	// Один из пяти получателей заблокировал бота
	sender := &mockSender{failFor: map[int64]bool{102: true}}
	engine := NewEngine(sender, 0, nil)

	recipients := usersOfCourse(1, 100, 101, 102, 103, 104)
	counts := []CourseCount{{CourseID: 1, Name: "PDEV", Total: 5}}

	report := engine.Deliver(Draft{Text: "Hi"}, recipients, counts)

	if report.Success != 4 || report.Failed != 1 {
		t.Fatalf("ожидалось 4/1, получено %d/%d", report.Success, report.Failed)
	}
	if report.PerCourse[0].Success != 4 || report.PerCourse[0].Failed != 1 {
		t.Fatalf("неожиданный счетчик курса: %+v", report.PerCourse[0])
	}
	// Сохранение счетчиков: success + failed == total recipients
	if report.Success+report.Failed != report.TotalRecipients {
		t.Fatalf("счетчики не сходятся: %+v", report)
	}
}

func TestDeliverTallyConservation(t *testing.T) {
	sender := &mockSender{failFor: map[int64]bool{201: true, 301: true}}
	engine := NewEngine(sender, 0, nil)

	recipients := append(usersOfCourse(1, 100, 101), append(usersOfCourse(2, 200, 201), usersOfCourse(3, 300, 301)...)...)
	counts := []CourseCount{
		{CourseID: 1, Name: "A", Total: 2},
		{CourseID: 2, Name: "B", Total: 2},
		{CourseID: 3, Name: "C", Total: 2},
	}

	report := engine.Deliver(Draft{Text: "Hi"}, recipients, counts)

	if report.Success+report.Failed != report.TotalRecipients {
		t.Fatalf("success + failed != total: %+v", report)
	}
	sum := 0
	for _, c := range report.PerCourse {
		sum += c.Success + c.Failed
	}
	if sum != report.Success+report.Failed {
		t.Fatalf("сумма по курсам %d не равна общим счетчикам %d", sum, report.Success+report.Failed)
	}
}

func TestDeliverCaptionFitsSingleMessage(t *testing.T) {
	sender := &mockSender{}
	engine := NewEngine(sender, 0, nil)

	text := strings.Repeat("я", CaptionLimit) // ровно на границе, в символах, не в байтах
	draft := Draft{Text: text, ImagePath: strPtr("media/images/broadcast_1.jpg")}

	engine.Deliver(draft, usersOfCourse(1, 100), []CourseCount{{CourseID: 1, Name: "A", Total: 1}})

	if len(sender.calls) != 1 {
		t.Fatalf("ожидался один вызов доставки, получено %d", len(sender.calls))
	}
	if sender.calls[0].kind != "photo" || sender.calls[0].caption != text {
		t.Fatalf("текст должен уйти подписью к фото: %+v", sender.calls[0])
	}
}

func TestDeliverLongCaptionFallsBackToTwoMessages(t *testing.T) {
	sender := &mockSender{}
	engine := NewEngine(sender, 0, nil)

	text := strings.Repeat("я", CaptionLimit+1)
	draft := Draft{Text: text, ImagePath: strPtr("media/images/broadcast_1.jpg")}

	engine.Deliver(draft, usersOfCourse(1, 100), []CourseCount{{CourseID: 1, Name: "A", Total: 1}})

	if len(sender.calls) != 2 {
		t.Fatalf("ожидалось два вызова доставки, получено %d", len(sender.calls))
	}
	if sender.calls[0].kind != "photo" || sender.calls[0].caption != "" {
		t.Fatalf("первым должно уйти фото без подписи: %+v", sender.calls[0])
	}
	if sender.calls[1].kind != "text" {
		t.Fatalf("вторым должен уйти текст: %+v", sender.calls[1])
	}
}

func TestDeliverTextOnly(t *testing.T) {
	sender := &mockSender{}
	engine := NewEngine(sender, 0, nil)

	engine.Deliver(Draft{Text: "Hi"}, usersOfCourse(1, 100), []CourseCount{{CourseID: 1, Name: "A", Total: 1}})

	if len(sender.calls) != 1 || sender.calls[0].kind != "text" {
		t.Fatalf("без изображения должно уйти одно текстовое сообщение: %+v", sender.calls)
	}
}

package broadcast

import (
	"context"
	"unicode/utf8"

	"internbot/internal/model"
	"internbot/pkg/logger/interfaces"

	"golang.org/x/time/rate"
)

// CaptionLimit лимит Telegram на длину подписи к изображению в символах.
// Текст длиннее отправляется отдельным сообщением после изображения.
const CaptionLimit = 1024

// Sender канал доставки сообщений. Реализуется адаптером над Telegram,
// в тестах подменяется моком.
type Sender interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, photoPath string, caption string) error
}

// CourseTally счетчики доставки по одному курсу
type CourseTally struct {
	CourseID uint
	Name     string
	Success  int
	Failed   int
	Total    int
}

// DeliveryReport итог рассылки: общие счетчики и разбивка по курсам
type DeliveryReport struct {
	TotalRecipients int
	Success         int
	Failed          int
	PerCourse       []CourseTally
}

// Engine поочередно доставляет рассылку каждому получателю.
// Скорость ограничивается, чтобы не упереться в лимиты Telegram.
type Engine struct {
	sender  Sender
	limiter *rate.Limiter
	log     interfaces.Logger
}

// NewEngine создает движок рассылки. perSecond <= 0 отключает ограничение
// скорости. log может быть nil.
func NewEngine(sender Sender, perSecond float64, log interfaces.Logger) *Engine {
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Engine{sender: sender, limiter: limiter, log: log}
}

// Deliver отправляет черновик каждому получателю по очереди.
// Ошибка доставки одному получателю не прерывает рассылку, а только
// попадает в счетчики. Повторных попыток нет.
//
// Счетчики по курсам инициализируются из counts до начала отправки,
// поэтому курс без получателей останется в отчете с нулями. Курс
// получателя берется из самого списка recipients и не перечитывается:
// подписка могла смениться, пока рассылка идет.
func (e *Engine) Deliver(draft Draft, recipients []model.User, counts []CourseCount) DeliveryReport {
	report := DeliveryReport{
		TotalRecipients: len(recipients),
		PerCourse:       make([]CourseTally, len(counts)),
	}

	tallyByCourse := make(map[uint]*CourseTally, len(counts))
	for i, c := range counts {
		report.PerCourse[i] = CourseTally{
			CourseID: c.CourseID,
			Name:     c.Name,
			Total:    c.Total,
		}
		tallyByCourse[c.CourseID] = &report.PerCourse[i]
	}

	for _, user := range recipients {
		if e.limiter != nil {
			e.limiter.Wait(context.Background())
		}

		err := e.sendOne(draft, user.TgID)

		var tally *CourseTally
		if user.CourseID != nil {
			tally = tallyByCourse[*user.CourseID]
		}

		if err != nil {
			if e.log != nil {
				e.log.Error("Ошибка отправки рассылки пользователю ", user.TgID, ": ", err)
			}
			report.Failed++
			if tally != nil {
				tally.Failed++
			}
			continue
		}

		report.Success++
		if tally != nil {
			tally.Success++
		}
	}

	return report
}

// sendOne доставляет сообщение одному получателю.
// Если текст помещается в подпись, изображение и текст уходят одним
// сообщением, иначе изображение отправляется без подписи, а текст отдельно.
func (e *Engine) sendOne(draft Draft, chatID int64) error {
	if draft.ImagePath == nil {
		return e.sender.SendText(chatID, draft.Text)
	}

	if utf8.RuneCountInString(draft.Text) <= CaptionLimit {
		return e.sender.SendPhoto(chatID, *draft.ImagePath, draft.Text)
	}

	if err := e.sender.SendPhoto(chatID, *draft.ImagePath, ""); err != nil {
		return err
	}
	return e.sender.SendText(chatID, draft.Text)
}

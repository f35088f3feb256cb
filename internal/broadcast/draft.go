package broadcast

// Draft черновик рассылки, накапливается по шагам мастера.
// Живет только в сессии админа и не попадает в БД до подтверждения.
type Draft struct {
	Text              string
	ImagePath         *string
	ProjectID         *uint
	SelectedCourseIDs []uint // Выбранные курсы в порядке выбора

	// Состояние браузера курсов, чтобы поиск и страница переживали
	// перерисовки клавиатуры
	SearchQuery string
	Page        int
}

// HasCourse входит ли курс в текущий выбор
func (d *Draft) HasCourse(courseID uint) bool {
	for _, id := range d.SelectedCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// ToggleCourse переключает членство курса в выборе: выбранный убирается,
// не выбранный добавляется в конец. Возвращает true, если курс добавлен.
func (d *Draft) ToggleCourse(courseID uint) bool {
	for i, id := range d.SelectedCourseIDs {
		if id == courseID {
			d.SelectedCourseIDs = append(d.SelectedCourseIDs[:i], d.SelectedCourseIDs[i+1:]...)
			return false
		}
	}
	d.SelectedCourseIDs = append(d.SelectedCourseIDs, courseID)
	return true
}

// Event событие мастера рассылки. Разбор строковых callback'ов происходит
// один раз на границе с Telegram, дальше мастер работает только с типами.
type Event interface {
	isEvent()
}

type TextEntered struct{ Text string }

// PhotoReceived изображение из Telegram. FileID - идентификатор файла
// на стороне Telegram, изображение скачивается и сохраняется локально,
// чтобы пережить истечение file_id.
type PhotoReceived struct{ FileID string }

type SkipPhoto struct{}

type ProjectChosen struct{ ProjectID uint }

type ToggleCourse struct{ CourseID uint }

type ChangePage struct{ Page int }

type SearchCourses struct{ Query string }

type FinishSelection struct{}

type Back struct{}

type Confirm struct{}

type Cancel struct{}

func (TextEntered) isEvent()     {}
func (PhotoReceived) isEvent()   {}
func (SkipPhoto) isEvent()       {}
func (ProjectChosen) isEvent()   {}
func (ToggleCourse) isEvent()    {}
func (ChangePage) isEvent()      {}
func (SearchCourses) isEvent()   {}
func (FinishSelection) isEvent() {}
func (Back) isEvent()            {}
func (Confirm) isEvent()         {}
func (Cancel) isEvent()          {}

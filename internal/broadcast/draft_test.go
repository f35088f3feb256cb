package broadcast

import "testing"

func TestToggleCourseIsItsOwnInverse(t *testing.T) {
	d := Draft{}

	if added := d.ToggleCourse(7); !added {
		t.Fatal("первый toggle должен добавить курс")
	}
	if !d.HasCourse(7) {
		t.Fatal("курс 7 должен быть выбран")
	}

	if added := d.ToggleCourse(7); added {
		t.Fatal("повторный toggle должен убрать курс")
	}
	if d.HasCourse(7) {
		t.Fatal("курс 7 не должен быть выбран после двойного toggle")
	}
	if len(d.SelectedCourseIDs) != 0 {
		t.Fatalf("выбор должен вернуться к исходному, получено %v", d.SelectedCourseIDs)
	}
}

func TestToggleCourseKeepsSelectionOrder(t *testing.T) {
	d := Draft{}
	d.ToggleCourse(3)
	d.ToggleCourse(1)
	d.ToggleCourse(2)
	d.ToggleCourse(1) // убираем из середины

	want := []uint{3, 2}
	if len(d.SelectedCourseIDs) != len(want) {
		t.Fatalf("ожидалось %v, получено %v", want, d.SelectedCourseIDs)
	}
	for i := range want {
		if d.SelectedCourseIDs[i] != want[i] {
			t.Fatalf("ожидалось %v, получено %v", want, d.SelectedCourseIDs)
		}
	}
}

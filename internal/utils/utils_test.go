package utils

import "testing"

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"короткий текст", 125, "короткий текст"},
		{"абвгд", 3, "абв..."},
		{"abcde", 5, "abcde"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := TruncateText(tt.in, tt.limit); got != tt.want {
			t.Fatalf("TruncateText(%q, %d) = %q; want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		day  int
		year int
	}{
		{"14.03.2025", true, 14, 2025},
		{"1.3.2025", true, 1, 2025},
		{"не дата", false, 0, 0},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.ok != (err == nil) {
			t.Fatalf("ParseDate(%q): неожиданный результат, err = %v", tt.in, err)
		}
		if tt.ok && (got.Day() != tt.day || got.Year() != tt.year) {
			t.Fatalf("ParseDate(%q) = %v", tt.in, got)
		}
	}
}

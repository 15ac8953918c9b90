package models

import "time"

const (
	DateLayout      = "2006-01-02"
	DisplayLayout   = "02/01/2006"
	TimeOfDayLayout = "15:04"
)

// DateOf возвращает календарный день t в часовом поясе loc как полночь UTC.
// Все даты записей хранятся в таком виде, чтобы сравнение в SQLite было строковым.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Day строит календарный день.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay сравнивает только год, месяц и день.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysInMonth возвращает количество дней в месяце.
func DaysInMonth(year int, month time.Month) int {
	return Day(year, month+1, 0).Day()
}

// RangeLabel форматирует период для заметок и уведомлений.
func RangeLabel(start, end time.Time) string {
	return start.Format(DisplayLayout) + " - " + end.Format(DisplayLayout)
}

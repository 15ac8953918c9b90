// Package calendar решает, какие дни требуют отметки, и находит пропуски.
package calendar

import (
	"sync"
	"time"

	"clinic-timesheet-bot/internal/models"
)

// Workdays - все, что умеет отвечать на вопрос "рабочий ли день"
type Workdays interface {
	IsWorkday(date time.Time) bool
}

// Oracle - рабочие дни: понедельник-пятница, кроме праздников из настраиваемого списка.
// Список можно заменить на лету через SetHolidays.
type Oracle struct {
	mu       sync.RWMutex
	holidays map[time.Time]struct{}
}

func NewOracle(holidays []time.Time) *Oracle {
	o := &Oracle{}
	o.SetHolidays(holidays)
	return o
}

// SetHolidays атомарно заменяет список праздников
func (o *Oracle) SetHolidays(holidays []time.Time) {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[key(h)] = struct{}{}
	}

	o.mu.Lock()
	o.holidays = set
	o.mu.Unlock()
}

// IsHoliday проверяет, входит ли дата в список праздников
func (o *Oracle) IsHoliday(date time.Time) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.holidays[key(date)]
	return ok
}

// IsWorkday - будний день и не праздник
func (o *Oracle) IsWorkday(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !o.IsHoliday(date)
}

// HolidayCount возвращает размер текущего списка праздников
func (o *Oracle) HolidayCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.holidays)
}

// WorkdaysInMonth считает рабочие дни месяца
func WorkdaysInMonth(wd Workdays, year int, month time.Month) int {
	count := 0
	for day := 1; day <= models.DaysInMonth(year, month); day++ {
		if wd.IsWorkday(models.Day(year, month, day)) {
			count++
		}
	}
	return count
}

func key(t time.Time) time.Time {
	return models.Day(t.Year(), t.Month(), t.Day())
}

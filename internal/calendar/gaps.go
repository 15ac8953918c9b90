package calendar

import (
	"time"

	"clinic-timesheet-bot/internal/models"
)

// DateSet - множество календарных дней
type DateSet map[time.Time]struct{}

func NewDateSet(dates ...time.Time) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d time.Time) {
	s[key(d)] = struct{}{}
}

func (s DateSet) Has(d time.Time) bool {
	_, ok := s[key(d)]
	return ok
}

// MissingDays возвращает рабочие дни месяца до вчерашнего включительно, на которые нет записи.
// Для месяца раньше текущего проверяются все его дни, для будущего месяца результат пустой.
// Первого числа текущего месяца пропусков еще нет.
func MissingDays(wd Workdays, year int, month time.Month, today time.Time, recorded DateSet) []time.Time {
	today = key(today)
	first := models.Day(year, month, 1)
	if !first.Before(today) {
		return nil
	}

	last := models.Day(year, month, models.DaysInMonth(year, month))
	if !today.After(last) {
		last = today.AddDate(0, 0, -1)
	}

	var missing []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if wd.IsWorkday(d) && !recorded.Has(d) {
			missing = append(missing, d)
		}
	}
	return missing
}

type Bucket string

const (
	BucketNonWorkday Bucket = "NON_WORKDAY"
	BucketDone       Bucket = "DONE"
	BucketPlanned    Bucket = "PLANNED"
	BucketMissing    Bucket = "MISSING"
	BucketNeutral    Bucket = "NEUTRAL"
)

type DayCell struct {
	Date   time.Time
	Bucket Bucket
}

// MonthBuckets раскладывает каждый день месяца ровно в одну категорию для календаря
func MonthBuckets(wd Workdays, year int, month time.Month, today time.Time, recorded DateSet) []DayCell {
	today = key(today)
	missing := NewDateSet(MissingDays(wd, year, month, today, recorded)...)

	cells := make([]DayCell, 0, models.DaysInMonth(year, month))
	for day := 1; day <= models.DaysInMonth(year, month); day++ {
		d := models.Day(year, month, day)

		var b Bucket
		switch {
		case !wd.IsWorkday(d):
			b = BucketNonWorkday
		case recorded.Has(d) && d.After(today):
			b = BucketPlanned
		case recorded.Has(d):
			b = BucketDone
		case missing.Has(d):
			b = BucketMissing
		default:
			b = BucketNeutral
		}
		cells = append(cells, DayCell{Date: d, Bucket: b})
	}
	return cells
}

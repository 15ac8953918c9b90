package calendar

import (
	"testing"
	"time"

	"clinic-timesheet-bot/internal/models"
)

func TestIsWorkday(t *testing.T) {
	oracle := NewOracle([]time.Time{models.Day(2025, 1, 1), models.Day(2025, 1, 6)})

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"holiday on wednesday", models.Day(2025, 1, 1), false},
		{"regular thursday", models.Day(2025, 1, 2), true},
		{"saturday", models.Day(2025, 1, 4), false},
		{"sunday", models.Day(2025, 1, 5), false},
		{"holiday on monday", models.Day(2025, 1, 6), false},
		{"new year far outside configured years", models.Day(2190, 1, 1), true},
		{"holiday with clock time and zone", time.Date(2025, 1, 1, 18, 30, 0, 0, time.FixedZone("CET", 3600)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oracle.IsWorkday(tt.date); got != tt.want {
				t.Fatalf("IsWorkday(%s) = %v, want %v", tt.date.Format(models.DateLayout), got, tt.want)
			}
		})
	}
}

func TestIsWorkdayMatchesWeekdayRule(t *testing.T) {
	holidays := []time.Time{models.Day(2025, 3, 19), models.Day(2025, 4, 18)}
	oracle := NewOracle(holidays)
	set := NewDateSet(holidays...)

	for d := models.Day(2025, 1, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
		want := !(weekend || set.Has(d))
		if got := oracle.IsWorkday(d); got != want {
			t.Fatalf("IsWorkday(%s) = %v, want %v", d.Format(models.DateLayout), got, want)
		}
	}
}

func TestSetHolidaysReplacesSet(t *testing.T) {
	oracle := NewOracle([]time.Time{models.Day(2025, 10, 9)})
	if oracle.IsWorkday(models.Day(2025, 10, 9)) {
		t.Fatal("expected 9 October to be a holiday")
	}

	oracle.SetHolidays([]time.Time{models.Day(2025, 10, 13)})
	if !oracle.IsWorkday(models.Day(2025, 10, 9)) {
		t.Fatal("expected 9 October to be a workday after reload")
	}
	if oracle.IsWorkday(models.Day(2025, 10, 13)) {
		t.Fatal("expected 13 October to be a holiday after reload")
	}
	if oracle.HolidayCount() != 1 {
		t.Fatalf("expected 1 holiday, got %d", oracle.HolidayCount())
	}
}

func TestWorkdaysInMonth(t *testing.T) {
	oracle := NewOracle([]time.Time{models.Day(2025, 10, 9)})
	if got := WorkdaysInMonth(oracle, 2025, time.October); got != 22 {
		t.Fatalf("expected 22 workdays, got %d", got)
	}
}

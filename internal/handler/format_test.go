package handler

import (
	"strings"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/service"
)

func TestFormatCalendarBreaksWeeksOnSunday(t *testing.T) {
	// 5 октября 2025 - воскресенье
	cells := []calendar.DayCell{
		{Date: models.Day(2025, time.October, 3), Bucket: calendar.BucketDone},
		{Date: models.Day(2025, time.October, 4), Bucket: calendar.BucketNonWorkday},
		{Date: models.Day(2025, time.October, 5), Bucket: calendar.BucketNonWorkday},
		{Date: models.Day(2025, time.October, 6), Bucket: calendar.BucketMissing},
	}

	text := formatCalendar("octubre 2025", cells)
	if !strings.Contains(text, "03✅ 04▫️ 05▫️ \n06❌") {
		t.Errorf("unexpected calendar layout:\n%s", text)
	}
	if !strings.HasPrefix(text, "📅 octubre 2025") {
		t.Errorf("missing title:\n%s", text)
	}
}

func TestFormatRecord(t *testing.T) {
	entry, exit, note := "08:00", "15:00", "revisado"
	record := &models.AttendanceRecord{
		ID:         7,
		Date:       models.Day(2025, time.October, 6),
		RecordType: models.RecordTypeForgottenCorrection,
		Status:     models.StatusPending,
		EntryTime:  &entry,
		ExitTime:   &exit,
		BreakHours: 1,
		AdminNote:  &note,
	}

	text := formatRecord(record)
	for _, want := range []string{"#7", "06/10/2025", "Registro olvidado", "08:00 - 15:00", "Pendiente", "📝 revisado"} {
		if !strings.Contains(text, want) {
			t.Errorf("formatRecord() = %q, missing %q", text, want)
		}
	}
}

func TestFormatRangeResult(t *testing.T) {
	result := &service.RangeResult{
		Start:        models.Day(2025, time.December, 22),
		End:          models.Day(2025, time.December, 28),
		CreatedCount: 4,
		Skipped: []service.SkippedDay{
			{Date: models.Day(2025, time.December, 25), Reason: service.SkipNonWorkday},
			{Date: models.Day(2025, time.December, 27), Reason: service.SkipNonWorkday},
			{Date: models.Day(2025, time.December, 28), Reason: service.SkipNonWorkday},
		},
	}

	text := formatRangeResult(result)
	for _, want := range []string{"22/12/2025 - 28/12/2025", "solicitados: 4", "25/12/2025, 27/12/2025, 28/12/2025"} {
		if !strings.Contains(text, want) {
			t.Errorf("formatRangeResult() = %q, missing %q", text, want)
		}
	}
	if strings.Contains(text, "Ya tenían registro") {
		t.Errorf("unexpected duplicates line in %q", text)
	}

	empty := formatRangeResult(&service.RangeResult{Start: result.Start, End: result.End})
	if !strings.Contains(empty, "No hay días") {
		t.Errorf("empty result = %q", empty)
	}
}

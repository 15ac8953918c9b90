package handler

import (
	"fmt"
	"strings"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/service"
)

var monthNames = [...]string{
	"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var bucketIcons = map[calendar.Bucket]string{
	calendar.BucketNonWorkday: "▫️",
	calendar.BucketDone:       "✅",
	calendar.BucketPlanned:    "🗓",
	calendar.BucketMissing:    "❌",
	calendar.BucketNeutral:    "⬜",
}

func monthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNames[month], year)
}

func statusIcon(s models.RecordStatus) string {
	switch s {
	case models.StatusApproved:
		return "✅"
	case models.StatusRejected:
		return "⛔"
	}
	return "⏳"
}

// formatRecord - одна строка о записи
func formatRecord(r *models.AttendanceRecord) string {
	line := fmt.Sprintf("%s #%d %s · %s · %s · %s",
		statusIcon(r.Status),
		r.ID,
		r.Date.Format(models.DisplayLayout),
		r.RecordType.Label(),
		r.FormatTime(),
		r.Status.Label(),
	)
	if note := r.Note(); note != "" {
		line += "\n    📝 " + note
	}
	return line
}

func formatPending(item service.PendingItem) string {
	kind := "🔔 Corrección"
	if item.IsFuture {
		kind = "✈️ Solicitud futura"
	}
	return fmt.Sprintf("%s de %s\n%s", kind, item.EmployeeName, formatRecord(item.Record))
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format(models.DisplayLayout))
	}
	return strings.Join(parts, ", ")
}

// formatCalendar рисует месяц по неделям, с понедельника
func formatCalendar(title string, cells []calendar.DayCell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n\n", title)

	for _, cell := range cells {
		fmt.Fprintf(&b, "%02d%s ", cell.Date.Day(), bucketIcons[cell.Bucket])
		if cell.Date.Weekday() == time.Sunday {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n✅ registrado  🗓 planificado  ❌ falta  ⬜ pendiente de fecha  ▫️ no laborable")
	return b.String()
}

func formatSummary(s service.MonthSummary) string {
	return fmt.Sprintf(`👤 %s · %s
📆 Días laborables: %d
📝 Registrados: %d (%.0f%%)
✅ Aprobados: %d · ⏳ Pendientes: %d · ⛔ Rechazados: %d
🏖️ Ausencias: %d
❌ Días sin registro: %d
⏱ Horas aprobadas: %.1f`,
		s.EmployeeName, monthTitle(s.Year, s.Month),
		s.Workdays,
		s.Recorded, s.Coverage(),
		s.Approved, s.Pending, s.Rejected,
		s.AbsenceDays,
		s.Missing,
		s.WorkedHours,
	)
}

func formatRangeResult(r *service.RangeResult) string {
	label := models.RangeLabel(r.Start, r.End)

	var b strings.Builder
	if r.NothingToDo() {
		fmt.Fprintf(&b, "ℹ️ No hay días que solicitar en %s.", label)
	} else {
		fmt.Fprintf(&b, "✅ Solicitud enviada para %s.\n📅 Días laborables solicitados: %d", label, r.CreatedCount)
	}

	if days := r.SkippedBy(service.SkipNonWorkday); len(days) > 0 {
		fmt.Fprintf(&b, "\n▫️ No laborables: %s", formatDates(days))
	}
	if days := r.SkippedBy(service.SkipAlreadyExists); len(days) > 0 {
		fmt.Fprintf(&b, "\n⚠️ Ya tenían registro: %s", formatDates(days))
	}
	return b.String()
}

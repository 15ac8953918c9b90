package handler

import (
	"errors"
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	usageToday   = "📝 Uso: /hoy 08:00 15:00 [descanso en horas]"
	usageCorrect = "📝 Uso: /corregir fecha olvido 08:00 15:00 [descanso]\n/corregir fecha asuntos"
	usageAbsence = "📝 Uso: /ausencia inicio fin tipo [nota]\nEjemplo: /ausencia 22/12/2025 02/01/2026 vacaciones Navidad"
)

// replyParseError показывает подсказку по формату или текст ошибки разбора
func (h *Handler) replyParseError(chatID int64, err error, usage string) {
	if errors.Is(err, errUsage) {
		h.reply(chatID, usage)
		return
	}
	h.reply(chatID, "❌ "+err.Error()+"\n"+usage)
}

func (h *Handler) recordToday(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		record, err := h.attendanceService.TodayRecord(ctx, session)
		if err != nil {
			h.replyError(chatID, err)
			return
		}
		if record == nil {
			h.reply(chatID, "ℹ️ Todavía no has registrado la jornada de hoy.\n"+usageToday)
			return
		}
		h.reply(chatID, "📋 Hoy:\n"+formatRecord(record))
		return
	}

	entry, exit, breakHours, err := parseShift(fields)
	if err != nil {
		h.replyParseError(chatID, err, usageToday)
		return
	}

	record, err := h.attendanceService.CreateDayRecord(ctx, session, service.DayRecordInput{
		Date:       h.attendanceService.Today(),
		Entry:      entry,
		Exit:       exit,
		BreakHours: breakHours,
		Type:       models.RecordTypeWork,
	})
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Jornada registrada\n%s\n⏱ %.1f h", formatRecord(record), record.WorkedHours()))
}

// correctDay - /corregir fecha tipo [entrada salida [descanso]]
func (h *Handler) correctDay(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.reply(chatID, usageCorrect)
		return
	}

	date, err := parseDate(fields[0], h.attendanceService.Today())
	if err != nil {
		h.replyParseError(chatID, err, usageCorrect)
		return
	}
	recordType, err := parseRecordType(fields[1])
	if err != nil {
		h.replyParseError(chatID, err, usageCorrect)
		return
	}

	in := service.DayRecordInput{Date: date, Type: recordType}
	if len(fields) > 2 {
		in.Entry, in.Exit, in.BreakHours, err = parseShift(fields[2:])
		if err != nil {
			h.replyParseError(chatID, err, usageCorrect)
			return
		}
	}

	record, err := h.attendanceService.CreateDayRecord(ctx, session, in)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, "📨 Corrección enviada a administración\n"+formatRecord(record))
}

func (h *Handler) showMissingDays(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	missing, err := h.attendanceService.MissingDays(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(missing) == 0 {
		h.reply(chatID, "🎉 No tienes días laborables sin registro este mes.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❌ Días laborables sin registro (%d):\n", len(missing))
	for _, d := range missing {
		b.WriteString("• " + d.Format(models.DisplayLayout) + "\n")
	}
	b.WriteString("\nCorrígelos con /corregir fecha olvido 08:00 15:00")
	h.reply(chatID, b.String())
}

func (h *Handler) showCalendar(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	cells, err := h.attendanceService.MonthCalendar(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	today := h.attendanceService.Today()
	h.reply(chatID, formatCalendar(monthTitle(today.Year(), today.Month()), cells))
}

func (h *Handler) showHistory(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	year, month, err := parseMonth(args, h.attendanceService.Today())
	if err != nil {
		h.replyParseError(chatID, err, "📝 Uso: /historial [mm/aaaa]")
		return
	}

	records, err := h.attendanceService.History(ctx, session, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(records) == 0 {
		h.reply(chatID, "📭 No hay registros en "+monthTitle(year, month)+".")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Registros de %s:\n\n", monthTitle(year, month))
	for _, r := range records {
		b.WriteString(formatRecord(r) + "\n")
	}
	h.reply(chatID, b.String())
}

// requestAbsence - /ausencia inicio fin tipo [nota]
func (h *Handler) requestAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	fields := strings.Fields(args)
	if len(fields) < 3 {
		h.reply(chatID, usageAbsence)
		return
	}

	today := h.attendanceService.Today()
	start, err := parseDate(fields[0], today)
	if err != nil {
		h.replyParseError(chatID, err, usageAbsence)
		return
	}
	end, err := parseDate(fields[1], today)
	if err != nil {
		h.replyParseError(chatID, err, usageAbsence)
		return
	}
	recordType, err := parseRecordType(fields[2])
	if err != nil {
		h.replyParseError(chatID, err, usageAbsence)
		return
	}

	result, err := h.attendanceService.RequestAbsenceRange(ctx, session, service.RangeInput{
		Start: start,
		End:   end,
		Type:  recordType,
		Note:  strings.Join(fields[3:], " "),
	})
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, formatRangeResult(result))
}

func (h *Handler) showMyAbsences(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	requests, err := h.attendanceService.AbsenceRequests(ctx, session, 10)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(requests) == 0 {
		h.reply(chatID, "📭 No tienes solicitudes de ausencia.")
		return
	}

	var b strings.Builder
	b.WriteString("🏖️ Tus solicitudes:\n\n")
	for _, r := range requests {
		fmt.Fprintf(&b, "• %s · %s · %d días\n", r.Label(), r.RecordType.Label(), r.CreatedCount)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) showMySummary(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.session(ctx, chatID)
	if !ok {
		return
	}

	summary, err := h.reportService.MySummary(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatSummary(*summary))
}

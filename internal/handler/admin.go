package handler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"clinic-timesheet-bot/internal/export"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	usageDecide     = "📝 Uso: /aprobar ID [nota] o /rechazar ID [nota]"
	usageReclassify = "📝 Uso: /reclasificar ID tipo [nota]\ntipo: olvido, asuntos o vacaciones"
	usageCreate     = "📝 Uso: /alta Nombre PIN"
	usageCloseGap   = "📝 Uso: /cerrarhueco Nombre; fecha; tipo [08:00 15:00]; nota\ntipo: olvido o asuntos"
)

// showPending отправляет каждую ожидающую запись отдельным сообщением с кнопками
func (h *Handler) showPending(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	items, err := h.approvalService.ListPending(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(items) == 0 {
		h.reply(chatID, "🎉 No hay registros pendientes.")
		return
	}

	h.reply(chatID, fmt.Sprintf("⏳ Registros pendientes: %d", len(items)))
	for _, item := range items {
		id := fmt.Sprint(item.Record.ID)
		msg := tgbotapi.NewMessage(chatID, formatPending(item))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Aprobar", callbackApprove+id),
				tgbotapi.NewInlineKeyboardButtonData("⛔ Rechazar", callbackReject+id),
			),
		)
		h.send(msg)
	}
}

// decide применяет решение к записи и сообщает результат
func (h *Handler) decide(chatID int64, idStr string, decision models.Decision, note string, newType models.RecordType) {
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	id, err := parseID(idStr)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	record, err := h.approvalService.Decide(ctx, session, id, decision, note, newType)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"record_id": record.ID,
		"decision":  decision,
		"admin_id":  session.EmployeeID,
	}).Info("Record decided")

	h.reply(chatID, "🗂 Registro actualizado\n"+formatRecord(record))
}

func (h *Handler) decideCommand(message *tgbotapi.Message, args string, decision models.Decision) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.reply(message.Chat.ID, usageDecide)
		return
	}
	h.decide(message.Chat.ID, fields[0], decision, strings.Join(fields[1:], " "), "")
}

// reclassify - /reclasificar ID tipo [nota]
func (h *Handler) reclassify(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.reply(chatID, usageReclassify)
		return
	}

	newType, err := parseRecordType(fields[1])
	if err != nil {
		h.replyParseError(chatID, err, usageReclassify)
		return
	}

	h.decide(chatID, fields[0], models.DecisionApprove, strings.Join(fields[2:], " "), newType)
}

func (h *Handler) showEmployees(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	employees, err := h.employeeService.List(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(employees) == 0 {
		h.reply(chatID, "📭 No hay empleados.")
		return
	}

	var b strings.Builder
	b.WriteString("👥 Empleados:\n\n")
	for _, e := range employees {
		icon := "👤"
		if e.IsAdmin() {
			icon = "👑"
		}
		status := ""
		if !e.Active {
			status = " (baja)"
		}
		fmt.Fprintf(&b, "%s %s%s\n", icon, e.Name, status)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) createEmployee(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	name, pin := splitNameAndLast(args)
	if name == "" || pin == "" {
		h.reply(chatID, usageCreate)
		return
	}
	// PIN не должен оставаться в истории чата
	h.deleteMessage(chatID, message.MessageID)

	employee, err := h.employeeService.Create(ctx, session, name, pin)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ Alta de "+employee.Name+" completada.")
}

func (h *Handler) deactivateEmployee(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	name := strings.TrimSpace(args)
	if name == "" {
		h.reply(chatID, "📝 Uso: /baja Nombre")
		return
	}

	employee, err := h.employeeService.Deactivate(ctx, session, name)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ "+employee.Name+" dado de baja. Sus registros se conservan.")
}

// employeeAndMonth разбирает "Nombre [mm/aaaa]" и находит сотрудника
func (h *Handler) employeeAndMonth(chatID int64, session *models.Session, args string) (*models.Employee, int, time.Month, bool) {
	ctx, cancel := requestContext()
	defer cancel()

	today := h.attendanceService.Today()
	name := strings.TrimSpace(args)
	year, month := today.Year(), today.Month()

	if rest, last := splitNameAndLast(args); last != "" {
		if y, m, err := parseMonth(last, today); err == nil {
			name, year, month = rest, y, m
		}
	}
	if name == "" {
		h.reply(chatID, "📝 Indica el nombre del empleado y, opcionalmente, el mes (mm/aaaa).")
		return nil, 0, 0, false
	}

	employee, err := h.employeeService.Find(ctx, session, name)
	if err != nil {
		h.replyError(chatID, err)
		return nil, 0, 0, false
	}
	return employee, year, month, true
}

func (h *Handler) showEmployeeGaps(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}
	employee, year, month, ok := h.employeeAndMonth(chatID, session, args)
	if !ok {
		return
	}

	missing, err := h.attendanceService.AdminMissingDays(ctx, session, employee.ID, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(missing) == 0 {
		h.reply(chatID, fmt.Sprintf("🎉 %s no tiene huecos en %s.", employee.Name, monthTitle(year, month)))
		return
	}

	h.reply(chatID, fmt.Sprintf("❌ Huecos de %s en %s (%d):\n%s",
		employee.Name, monthTitle(year, month), len(missing), formatDates(missing)))
}

func (h *Handler) showEmployeeCalendar(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}
	employee, year, month, ok := h.employeeAndMonth(chatID, session, args)
	if !ok {
		return
	}

	cells, err := h.attendanceService.AdminMonthCalendar(ctx, session, employee.ID, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, formatCalendar(employee.Name+" · "+monthTitle(year, month), cells))
}

// closeGap - /cerrarhueco Nombre; fecha; tipo [entrada salida [descanso]]; nota
func (h *Handler) closeGap(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	parts := splitSemicolons(args)
	if len(parts) != 4 {
		h.reply(chatID, usageCloseGap)
		return
	}

	employee, err := h.employeeService.Find(ctx, session, parts[0])
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	date, err := parseDate(parts[1], h.attendanceService.Today())
	if err != nil {
		h.replyParseError(chatID, err, usageCloseGap)
		return
	}

	typeFields := strings.Fields(parts[2])
	if len(typeFields) == 0 {
		h.reply(chatID, usageCloseGap)
		return
	}
	recordType, err := parseRecordType(typeFields[0])
	if err != nil {
		h.replyParseError(chatID, err, usageCloseGap)
		return
	}

	in := service.GapCloseInput{
		EmployeeID:     employee.ID,
		DayRecordInput: service.DayRecordInput{Date: date, Type: recordType},
		Note:           parts[3],
	}
	if len(typeFields) > 1 {
		in.Entry, in.Exit, in.BreakHours, err = parseShift(typeFields[1:])
		if err != nil {
			h.replyParseError(chatID, err, usageCloseGap)
			return
		}
	}

	record, err := h.attendanceService.CloseGap(ctx, session, in)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "✅ Hueco cerrado para "+employee.Name+"\n"+formatRecord(record))
}

func (h *Handler) showMonthSummary(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	year, month, err := parseMonth(args, h.attendanceService.Today())
	if err != nil {
		h.replyParseError(chatID, err, "📝 Uso: /resumenmes [mm/aaaa]")
		return
	}

	summaries, err := h.reportService.MonthSummary(ctx, session, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(summaries) == 0 {
		h.reply(chatID, "📭 No hay empleados activos.")
		return
	}

	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		blocks = append(blocks, formatSummary(s))
	}
	h.reply(chatID, "📊 Resumen de "+monthTitle(year, month)+"\n\n"+strings.Join(blocks, "\n\n"))
}

// exportRecords отправляет все записи файлом Excel
func (h *Handler) exportRecords(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	rows, err := h.reportService.Export(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, rows); err != nil {
		h.replyError(chatID, err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.FileName(time.Now()),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📤 %d registros exportados", len(rows))
	h.send(doc)

	h.logger.WithFields(logrus.Fields{
		"admin_id": session.EmployeeID,
		"rows":     len(rows),
	}).Info("Records exported")
}

func (h *Handler) showHolidays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	if _, ok := h.session(ctx, chatID); !ok {
		return
	}

	year, month, err := parseMonth(args, h.attendanceService.Today())
	if err != nil {
		h.replyParseError(chatID, err, "📝 Uso: /festivos [mm/aaaa]")
		return
	}

	days, err := h.holidayService.ForMonth(ctx, year, month)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(days) == 0 {
		h.reply(chatID, "📆 No hay festivos en "+monthTitle(year, month)+".")
		return
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	h.reply(chatID, "📆 Festivos de "+monthTitle(year, month)+":\n"+formatDates(dates))
}

func (h *Handler) reloadHolidays(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	count, err := h.holidayService.Reload(ctx, session, h.holidaysFile)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Festivos recargados: %d", count))
}

func (h *Handler) showNotificationStats(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx, cancel := requestContext()
	defer cancel()

	session, ok := h.adminSession(ctx, chatID)
	if !ok {
		return
	}

	stats, err := h.notificationService.Stats(ctx, session)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("📬 Cola de avisos\n⏳ Pendientes: %d\n✅ Entregados: %d\n⚠️ Fallidos: %d",
		stats[models.OutboxPending], stats[models.OutboxDelivered], stats[models.OutboxFailed]))
}

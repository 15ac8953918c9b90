package handler

import (
	"clinic-timesheet-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help", "ayuda":
		h.sendHelpMessage(message)
	case "helpadmin", "ayudaadmin":
		h.sendAdminHelpMessage(message)

	// Вход и выход
	case "login", "entrar":
		h.startLogin(message, args)
	case "logout", "salir":
		h.logout(message)

	// Записи сотрудника
	case "hoy", "today":
		h.recordToday(message, args)
	case "corregir":
		h.correctDay(message, args)
	case "faltan", "missing":
		h.showMissingDays(message)
	case "calendario":
		h.showCalendar(message)
	case "historial", "history":
		h.showHistory(message, args)
	case "ausencia":
		h.requestAbsence(message, args)
	case "misausencias":
		h.showMyAbsences(message)
	case "resumen":
		h.showMySummary(message)

	// Администрирование
	case "pendientes", "pending":
		h.showPending(message)
	case "aprobar", "approve":
		h.decideCommand(message, args, models.DecisionApprove)
	case "rechazar", "reject":
		h.decideCommand(message, args, models.DecisionReject)
	case "reclasificar":
		h.reclassify(message, args)
	case "empleados":
		h.showEmployees(message)
	case "alta":
		h.createEmployee(message, args)
	case "baja":
		h.deactivateEmployee(message, args)
	case "huecos":
		h.showEmployeeGaps(message, args)
	case "calendarioempleado":
		h.showEmployeeCalendar(message, args)
	case "cerrarhueco":
		h.closeGap(message, args)
	case "resumenmes":
		h.showMonthSummary(message, args)
	case "exportar", "export":
		h.exportRecords(message)
	case "festivos":
		h.showHolidays(message, args)
	case "recargarfestivos", "reloadholidays":
		h.reloadHolidays(message)
	case "notificaciones":
		h.showNotificationStats(message)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Orden desconocida. Usa /help para ver la lista.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	text := `👋 ¡Hola! Soy el bot de control horario de la clínica.

1. Entra con /login
2. Registra tu jornada de hoy con /hoy 08:00 15:00
3. Revisa los días sin registro con /faltan
4. Solicita vacaciones o asuntos propios con /ausencia

Usa /help para ver todas las órdenes.`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Órdenes disponibles:

🔑 Sesión:
/login - Elegir tu nombre y escribir el PIN
/login Nombre PIN - Entrar directamente
/logout - Cerrar sesión

⏰ Jornada:
/hoy - Ver el registro de hoy
/hoy 08:00 15:00 [descanso] - Registrar la jornada de hoy (descanso en horas, por defecto 1)
/corregir fecha olvido 08:00 15:00 [descanso] - Registro olvidado de un día pasado de este mes
/corregir fecha asuntos - Asuntos propios en un día pasado de este mes
    Ejemplo: /corregir 14/10 olvido 08:00 15:00

📅 Consultas:
/faltan - Días laborables de este mes sin registro
/calendario - Calendario del mes
/historial [mm/aaaa] - Tus registros del mes
/resumen - Resumen de este mes

🏖️ Ausencias futuras:
/ausencia inicio fin tipo [nota] - tipo: vacaciones o asuntos
    Ejemplo: /ausencia 22/12/2025 02/01/2026 vacaciones Navidad
/misausencias - Tus últimas solicitudes

Las correcciones y ausencias quedan pendientes hasta que administración las revise.`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	ctx, cancel := requestContext()
	defer cancel()

	if _, ok := h.adminSession(ctx, message.Chat.ID); !ok {
		return
	}

	text := `👑 Administración:

✅ Aprobaciones:
/pendientes - Registros pendientes con botones de aprobar y rechazar
/aprobar ID [nota] - Aprobar un registro
/rechazar ID [nota] - Rechazar un registro
/reclasificar ID tipo [nota] - Cambiar el tipo y aprobar

👥 Personal:
/empleados - Lista de empleados
/alta Nombre PIN - Dar de alta
/baja Nombre - Dar de baja (los registros se conservan)

🔍 Huecos:
/huecos Nombre [mm/aaaa] - Días sin registro de un empleado
/calendarioempleado Nombre [mm/aaaa] - Calendario de un empleado
/cerrarhueco Nombre; fecha; tipo [08:00 15:00]; nota - Cerrar un hueco pasado
    tipo: olvido o asuntos

📊 Informes:
/resumenmes [mm/aaaa] - Resumen de todo el personal
/exportar - Descargar todos los registros en Excel
/notificaciones - Estado de la cola de avisos

📆 Festivos:
/festivos [mm/aaaa] - Festivos del mes
/recargarfestivos - Volver a leer el fichero de festivos`

	h.reply(message.Chat.ID, text)
}

package notify

import (
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"
)

// Subject - тема уведомления для администратора
func Subject(event models.NotificationEvent) string {
	if event.IsFuture {
		return "✈️ Solicitud futura: " + event.EmployeeName
	}
	return "🔔 Corrección horaria: " + event.EmployeeName
}

// Body - текст уведомления
func Body(event models.NotificationEvent) string {
	kind := "CORRECCIÓN PASADA"
	if event.IsFuture {
		kind = "PLANIFICACIÓN FUTURA"
	}

	schedule := "sin horario"
	if event.ProposedEntry != "" && event.ProposedExit != "" {
		schedule = fmt.Sprintf("%s a %s", event.ProposedEntry, event.ProposedExit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola,\n\n%s ha enviado una solicitud:\n\n", event.EmployeeName)
	fmt.Fprintf(&b, "- Tipo: %s\n", kind)
	if event.IsRange {
		fmt.Fprintf(&b, "- Periodo: %s\n", event.RangeLabel)
		fmt.Fprintf(&b, "- Días laborables: %d\n", event.DaysCreated)
	} else {
		fmt.Fprintf(&b, "- Fecha: %s\n", event.Date)
	}
	fmt.Fprintf(&b, "- Motivo: %s\n", event.RecordType.Label())
	fmt.Fprintf(&b, "- Horario: %s\n", schedule)
	if event.Note != "" {
		fmt.Fprintf(&b, "- Nota: %s\n", event.Note)
	}
	b.WriteString("\nRevisa las solicitudes pendientes con /pendientes.\n")

	return b.String()
}

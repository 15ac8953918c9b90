package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-timesheet-bot/internal/models"
)

var errUsage = errors.New("usage")

// parseDate разбирает дату относительно today.
// Без года берется год today.
func parseDate(value string, today time.Time) (time.Time, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	switch value {
	case "hoy":
		return today, nil
	case "ayer":
		return today.AddDate(0, 0, -1), nil
	case "mañana", "manana":
		return today.AddDate(0, 0, 1), nil
	}

	formats := []string{
		"02/01/2006",
		"2/1/2006",
		"02.01.2006",
		"02-01-2006",
		"2006-01-02",
		"02/01",
		"2/1",
		"02.01",
	}

	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err != nil {
			continue
		}
		if !strings.Contains(format, "2006") {
			t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return models.DateOf(t, nil), nil
	}

	return time.Time{}, fmt.Errorf("fecha no válida %q, usa dd/mm/aaaa", value)
}

// parseMonth разбирает "mm/aaaa", "aaaa-mm" или "mm" (год today)
func parseMonth(value string, today time.Time) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return today.Year(), today.Month(), nil
	}

	for _, format := range []string{"01/2006", "1/2006", "2006-01"} {
		if t, err := time.Parse(format, value); err == nil {
			return t.Year(), t.Month(), nil
		}
	}

	if m, err := strconv.Atoi(value); err == nil && m >= 1 && m <= 12 {
		return today.Year(), time.Month(m), nil
	}

	return 0, 0, fmt.Errorf("mes no válido %q, usa mm/aaaa", value)
}

// recordTypeAliases - короткие названия типов для команд
var recordTypeAliases = map[string]models.RecordType{
	"trabajo":    models.RecordTypeWork,
	"olvido":     models.RecordTypeForgottenCorrection,
	"correccion": models.RecordTypeForgottenCorrection,
	"corrección": models.RecordTypeForgottenCorrection,
	"vacaciones": models.RecordTypeUnplannedLeave,
	"asuntos":    models.RecordTypePersonalDay,
	"personal":   models.RecordTypePersonalDay,
}

func parseRecordType(value string) (models.RecordType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if t, ok := recordTypeAliases[value]; ok {
		return t, nil
	}
	t, err := models.ParseRecordType(value)
	if err != nil {
		return "", fmt.Errorf("tipo no válido %q, usa olvido, asuntos o vacaciones", value)
	}
	return t, nil
}

// parseShift разбирает "HH:MM HH:MM [descanso]"
func parseShift(fields []string) (entry, exit string, breakHours *float64, err error) {
	if len(fields) < 2 || len(fields) > 3 {
		return "", "", nil, errUsage
	}

	entry = normalizeTime(fields[0])
	exit = normalizeTime(fields[1])

	if len(fields) == 3 {
		b, err := strconv.ParseFloat(strings.ReplaceAll(fields[2], ",", "."), 64)
		if err != nil {
			return "", "", nil, fmt.Errorf("descanso no válido %q", fields[2])
		}
		breakHours = &b
	}
	return entry, exit, breakHours, nil
}

// normalizeTime принимает 9:00, 09.00 и 0900
func normalizeTime(value string) string {
	value = strings.NewReplacer(".", ":", "h", ":").Replace(strings.TrimSpace(value))
	if !strings.Contains(value, ":") && len(value) == 4 {
		value = value[:2] + ":" + value[2:]
	}
	if len(value) == 4 && value[1] == ':' {
		value = "0" + value
	}
	return value
}

// parseID разбирает номер записи из команды
func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(value), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("número de registro no válido %q", value)
	}
	return uint(id), nil
}

// splitNameAndLast отделяет последнее слово (PIN или мес) от имени из нескольких слов
func splitNameAndLast(args string) (string, string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return strings.Join(fields, " "), ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// splitSemicolons делит аргументы по ";"
func splitSemicolons(args string) []string {
	parts := strings.Split(args, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

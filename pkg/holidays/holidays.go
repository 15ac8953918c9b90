package holidays

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// YearCalendar - календарь праздников на год.
//
//	{"year": 2025, "months": [{"month": 1, "days": "1,6"}, ...]}
//
// День с суффиксом "+" - перенесенный выходной, тоже нерабочий.
// День с суффиксом "*" - сокращенный рабочий день, в праздники не попадает.
type YearCalendar struct {
	Year   int             `json:"year"`
	Months []MonthHolidays `json:"months"`
}

type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Holiday - один праздничный день
type Holiday struct {
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
}

// ParseFile читает файл с одним годом или массивом лет
func ParseFile(filePath string) ([]Holiday, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает JSON календаря и возвращает праздники по возрастанию даты
func Parse(data []byte) ([]Holiday, error) {
	var years []YearCalendar

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &years); err != nil {
			return nil, fmt.Errorf("failed to unmarshal holidays JSON: %w", err)
		}
	} else {
		var single YearCalendar
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("failed to unmarshal holidays JSON: %w", err)
		}
		years = append(years, single)
	}

	seen := make(map[time.Time]bool)
	result := []Holiday{}

	for _, yc := range years {
		if yc.Year < 1 {
			return nil, fmt.Errorf("invalid year %d", yc.Year)
		}
		for _, monthData := range yc.Months {
			if monthData.Month < 1 || monthData.Month > 12 {
				return nil, fmt.Errorf("invalid month %d in year %d", monthData.Month, yc.Year)
			}

			for _, dayStr := range strings.Split(monthData.Days, ",") {
				dayStr = strings.TrimSpace(dayStr)
				if dayStr == "" || strings.HasSuffix(dayStr, "*") {
					continue
				}
				dayStr = strings.TrimSuffix(dayStr, "+")

				day, err := strconv.Atoi(dayStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
						dayStr, monthData.Month, err)
				}

				date := time.Date(yc.Year, time.Month(monthData.Month), day, 0, 0, 0, 0, time.UTC)
				// time.Date нормализует 31.02 в март, такие дни отбрасываем как ошибку
				if date.Day() != day {
					return nil, fmt.Errorf("day %d does not exist in %d-%02d", day, yc.Year, monthData.Month)
				}
				if seen[date] {
					continue
				}
				seen[date] = true

				result = append(result, Holiday{
					Date:  date,
					Year:  yc.Year,
					Month: monthData.Month,
					Day:   day,
				})
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// ForMonth возвращает праздники конкретного месяца
func ForMonth(days []Holiday, year, month int) []Holiday {
	result := []Holiday{}
	for _, day := range days {
		if day.Year == year && day.Month == month {
			result = append(result, day)
		}
	}
	return result
}

// Package export выгружает записи посещаемости в Excel.
package export

import (
	"fmt"
	"io"
	"time"

	"clinic-timesheet-bot/internal/models"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Registros"

var headers = []string{
	"ID",
	"Empleado",
	"Fecha",
	"Entrada",
	"Salida",
	"Descanso (h)",
	"Horas",
	"Tipo",
	"Estado",
	"Nota",
	"Solicitud",
	"Creado por",
	"Creado",
	"Actualizado",
}

// FileName - имя файла выгрузки на дату
func FileName(at time.Time) string {
	return fmt.Sprintf("registros_%s.xlsx", at.Format("20060102_1504"))
}

// WriteXLSX пишет книгу с одной строкой на запись
func WriteXLSX(w io.Writer, rows []models.ExportRow) error {
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook строит книгу в памяти
func Workbook(rows []models.ExportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		values := rowValues(row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "J", "J", 40); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

func rowValues(row models.ExportRow) []interface{} {
	record := models.AttendanceRecord{
		EntryTime:  row.EntryTime,
		ExitTime:   row.ExitTime,
		BreakHours: row.BreakHours,
		RecordType: row.RecordType,
	}

	var request interface{} = ""
	if row.AbsenceRequestID != nil {
		request = *row.AbsenceRequestID
	}

	return []interface{}{
		row.ID,
		row.EmployeeName,
		row.Date.Format(models.DateLayout),
		record.Entry(),
		record.Exit(),
		row.BreakHours,
		record.WorkedHours(),
		string(row.RecordType),
		string(row.Status),
		stringOrEmpty(row.AdminNote),
		request,
		row.CreatedBy,
		row.CreatedAt.Format("2006-01-02 15:04:05"),
		row.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

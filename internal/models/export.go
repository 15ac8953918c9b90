package models

import "time"

// ExportRow - запись вместе с именем сотрудника для выгрузки
type ExportRow struct {
	ID               uint
	EmployeeID       uint
	EmployeeName     string
	Date             time.Time
	EntryTime        *string
	ExitTime         *string
	BreakHours       float64
	RecordType       RecordType
	Status           RecordStatus
	AdminNote        *string
	AbsenceRequestID *uint
	CreatedBy        uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

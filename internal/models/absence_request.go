package models

import "time"

// AbsenceRequest - одна логическая заявка на период отсутствия.
// Каждый рабочий день периода хранится отдельной AttendanceRecord.
type AbsenceRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EmployeeID   uint       `gorm:"not null;index" json:"employee_id"`
	StartDate    time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time  `gorm:"type:date;not null" json:"end_date"`
	RecordType   RecordType `gorm:"type:varchar(32);not null" json:"record_type"`
	Note         string     `gorm:"type:text" json:"note"`
	CreatedCount int        `gorm:"not null;default:0" json:"created_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Employee Employee           `gorm:"foreignKey:EmployeeID" json:"-"`
	Records  []AttendanceRecord `gorm:"foreignKey:AbsenceRequestID" json:"records"`
}

func (AbsenceRequest) TableName() string {
	return "absence_requests"
}

// Label возвращает период в виде "dd/mm/yyyy - dd/mm/yyyy"
func (a *AbsenceRequest) Label() string {
	return RangeLabel(a.StartDate, a.EndDate)
}

package models

import (
	"fmt"
	"time"
)

type AttendanceRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_attendance_employee_date,priority:1" json:"employee_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date,priority:2;index" json:"date"`

	// Время смены, HH:MM. Для отсутствий пустое.
	EntryTime  *string `gorm:"type:varchar(5)" json:"entry_time"`
	ExitTime   *string `gorm:"type:varchar(5)" json:"exit_time"`
	BreakHours float64 `gorm:"not null;default:0" json:"break_hours"`

	RecordType RecordType   `gorm:"type:varchar(32);not null" json:"record_type"`
	Status     RecordStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	AdminNote  *string      `gorm:"type:text" json:"admin_note"`

	AbsenceRequestID *uint     `gorm:"index" json:"absence_request_id"`
	CreatedBy        uint      `gorm:"not null" json:"created_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Note возвращает заметку администратора или пустую строку
func (r *AttendanceRecord) Note() string {
	if r.AdminNote == nil {
		return ""
	}
	return *r.AdminNote
}

// Entry возвращает время прихода или пустую строку
func (r *AttendanceRecord) Entry() string {
	if r.EntryTime == nil {
		return ""
	}
	return *r.EntryTime
}

// Exit возвращает время ухода или пустую строку
func (r *AttendanceRecord) Exit() string {
	if r.ExitTime == nil {
		return ""
	}
	return *r.ExitTime
}

// WorkedHours вычисляет отработанные часы за вычетом перерыва.
// Для отсутствий и записей без времени возвращает 0.
func (r *AttendanceRecord) WorkedHours() float64 {
	if r.RecordType.IsAbsence() || r.EntryTime == nil || r.ExitTime == nil {
		return 0
	}
	in, err := time.Parse(TimeOfDayLayout, *r.EntryTime)
	if err != nil {
		return 0
	}
	out, err := time.Parse(TimeOfDayLayout, *r.ExitTime)
	if err != nil {
		return 0
	}
	hours := out.Sub(in).Hours() - r.BreakHours
	if hours < 0 {
		return 0
	}
	return hours
}

// FormatTime форматирует смену для отображения
func (r *AttendanceRecord) FormatTime() string {
	if r.EntryTime == nil || r.ExitTime == nil {
		return "sin horario"
	}
	return fmt.Sprintf("%s - %s (descanso %.1fh)", *r.EntryTime, *r.ExitTime, r.BreakHours)
}

// IsValid проверяет инварианты записи перед вставкой
func (r *AttendanceRecord) IsValid() bool {
	if r.EmployeeID == 0 || r.Date.IsZero() {
		return false
	}
	if !r.RecordType.Valid() {
		return false
	}
	if r.Status != StatusPending && r.Status != StatusApproved && r.Status != StatusRejected {
		return false
	}
	if r.BreakHours < 0 {
		return false
	}
	if r.RecordType.IsAbsence() && (r.EntryTime != nil || r.ExitTime != nil || r.BreakHours != 0) {
		return false
	}
	return true
}

package models

import "time"

// Session - токен входа сотрудника. Выдается при входе, отзывается при выходе.
type Session struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Token      string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	EmployeeID uint       `gorm:"not null;index" json:"employee_id"`
	IssuedAt   time.Time  `gorm:"not null" json:"issued_at"`
	RevokedAt  *time.Time `json:"revoked_at"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsActive - сессия не отозвана
func (s *Session) IsActive() bool {
	return s.RevokedAt == nil
}

// IsAdmin - сессия принадлежит администратору
func (s *Session) IsAdmin() bool {
	return s.Employee.IsAdmin()
}

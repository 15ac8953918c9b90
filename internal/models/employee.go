package models

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

type Employee struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	PIN       string    `gorm:"column:pin;not null" json:"-"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'EMPLOYEE'" json:"role"`
	ChatID    *int64    `gorm:"index" json:"chat_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// IsAdmin проверяет роль администратора
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// CheckPIN сравнивает PIN с сохраненным секретом
func (e *Employee) CheckPIN(pin string) bool {
	return e.PIN != "" && e.PIN == pin
}

package models

import "time"

// NotificationEvent - событие для администратора о новой заявке.
// Для одного дня заполняется Date, для периода - RangeLabel.
type NotificationEvent struct {
	EmployeeName  string     `json:"employee_name"`
	Date          string     `json:"date,omitempty"`
	RangeLabel    string     `json:"range_label,omitempty"`
	RecordType    RecordType `json:"record_type"`
	ProposedEntry string     `json:"proposed_entry,omitempty"`
	ProposedExit  string     `json:"proposed_exit,omitempty"`
	Note          string     `json:"note,omitempty"`
	DaysCreated   int        `json:"days_created,omitempty"`
	IsFuture      bool       `json:"is_future"`
	IsRange       bool       `json:"is_range"`
}

// When возвращает дату или период события
func (e NotificationEvent) When() string {
	if e.IsRange {
		return e.RangeLabel
	}
	return e.Date
}

type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxDelivered OutboxStatus = "delivered"
	OutboxFailed    OutboxStatus = "failed"
)

// OutboxEvent - событие в очереди доставки уведомлений
type OutboxEvent struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Payload     NotificationEvent `gorm:"type:text;serializer:json;not null" json:"payload"`
	Status      OutboxStatus      `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Attempts    int               `gorm:"not null;default:0" json:"attempts"`
	LastError   string            `gorm:"type:text" json:"last_error"`
	DeliveredAt *time.Time        `json:"delivered_at"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

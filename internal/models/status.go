package models

import (
	"fmt"
	"strings"
)

type RecordType string

const (
	RecordTypeWork                RecordType = "WORK"
	RecordTypeForgottenCorrection RecordType = "FORGOTTEN_CORRECTION"
	RecordTypeUnplannedLeave      RecordType = "UNPLANNED_LEAVE"
	RecordTypePersonalDay         RecordType = "PERSONAL_DAY"
)

// Valid проверяет, что тип входит в перечисление
func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeWork, RecordTypeForgottenCorrection, RecordTypeUnplannedLeave, RecordTypePersonalDay:
		return true
	}
	return false
}

// IsAbsence - запись об отсутствии, без времени смены
func (t RecordType) IsAbsence() bool {
	return t == RecordTypeUnplannedLeave || t == RecordTypePersonalDay
}

// Label - название типа для сообщений сотрудникам и администратору
func (t RecordType) Label() string {
	switch t {
	case RecordTypeWork:
		return "Jornada realizada"
	case RecordTypeForgottenCorrection:
		return "Registro olvidado (corrección)"
	case RecordTypeUnplannedLeave:
		return "Vacaciones (solicitud)"
	case RecordTypePersonalDay:
		return "Asuntos propios (solicitud)"
	}
	return string(t)
}

// ParseRecordType разбирает тип записи без учета регистра
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, s)
	}
	return t, nil
}

type RecordStatus string

const (
	StatusPending  RecordStatus = "PENDING"
	StatusApproved RecordStatus = "APPROVED"
	StatusRejected RecordStatus = "REJECTED"
)

// IsTerminal - решение по записи уже принято
func (s RecordStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s RecordStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusApproved:
		return "Aprobado"
	case StatusRejected:
		return "Rechazado"
	}
	return string(s)
}

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// transitions - все допустимые переходы статуса записи.
// Из APPROVED и REJECTED переходов нет.
var transitions = map[RecordStatus]map[Decision]RecordStatus{
	StatusPending: {
		DecisionApprove: StatusApproved,
		DecisionReject:  StatusRejected,
	},
}

// Transition возвращает новый статус после решения администратора
func Transition(from RecordStatus, d Decision) (RecordStatus, error) {
	if !d.Valid() {
		return from, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, d)
	}
	next, ok := transitions[from][d]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s record", ErrInvalidState, strings.ToLower(string(d)), from)
	}
	return next, nil
}

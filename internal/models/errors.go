package models

import "errors"

var (
	ErrDuplicateRecord    = errors.New("attendance record already exists for this date")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("record is not pending")
	ErrConnectivity       = errors.New("store unavailable")
	ErrInvalidType        = errors.New("record type not allowed here")
	ErrDateNotEligible    = errors.New("date is not eligible for this request")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid name or pin")
	ErrUnauthorized       = errors.New("session is not valid")
	ErrForbidden          = errors.New("operation requires administrator role")
)

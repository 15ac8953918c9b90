package handler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"clinic-timesheet-bot/internal/models"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		contains string
		expected bool
	}{
		{fmt.Errorf("%w: 2025-10-06", models.ErrDuplicateRecord), "Ya existe", true},
		{models.ErrInvalidRange, "Periodo no válido", true},
		{models.ErrDateNotEligible, "día laborable pasado", true},
		{models.ErrInvalidState, "ya fue revisado", true},
		{models.ErrForbidden, "Acceso denegado", true},
		{models.ErrUnauthorized, "/login", true},
		{fmt.Errorf("%w: exit before entry", models.ErrInvalidInput), "Datos no válidos", true},
		{fmt.Errorf("%w: disk I/O error", models.ErrConnectivity), "base de datos", false},
		{errors.New("boom"), "inesperado", false},
	}

	for _, tt := range tests {
		msg := userMessage(tt.err)
		if !strings.Contains(msg, tt.contains) {
			t.Errorf("userMessage(%v) = %q, want it to contain %q", tt.err, msg, tt.contains)
		}
		if got := isExpected(tt.err); got != tt.expected {
			t.Errorf("isExpected(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}

func TestUserMessageHidesStorageDetails(t *testing.T) {
	err := fmt.Errorf("%w: database is locked", models.ErrConnectivity)
	if strings.Contains(userMessage(err), "locked") {
		t.Error("storage error details leaked to the user")
	}
}

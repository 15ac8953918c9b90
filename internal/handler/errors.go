package handler

import (
	"errors"

	"clinic-timesheet-bot/internal/models"
)

const unexpectedMessage = "⚠️ Error inesperado. Inténtalo de nuevo."

// userMessage переводит ошибку сервиса в сообщение для пользователя.
// Ошибки хранилища не раскрываются.
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicateRecord):
		return "⚠️ Ya existe un registro para ese día."
	case errors.Is(err, models.ErrInvalidRange):
		return "❌ Periodo no válido: debe empezar después de hoy y la fecha final no puede ser anterior a la inicial."
	case errors.Is(err, models.ErrDateNotEligible):
		return "❌ Solo puedes registrar hoy o corregir un día laborable pasado de este mes sin registro."
	case errors.Is(err, models.ErrInvalidType):
		return "❌ Tipo de registro no permitido para esta operación."
	case errors.Is(err, models.ErrInvalidState):
		return "⚠️ Este registro ya fue revisado."
	case errors.Is(err, models.ErrNotFound):
		return "❌ No encontrado."
	case errors.Is(err, models.ErrInvalidCredentials):
		return "❌ Nombre o PIN incorrectos."
	case errors.Is(err, models.ErrUnauthorized):
		return "🔒 Debes iniciar sesión: /login Nombre PIN"
	case errors.Is(err, models.ErrForbidden):
		return "⛔ Acceso denegado. Esta orden es solo para administración."
	case errors.Is(err, models.ErrInvalidInput):
		return "❌ Datos no válidos. Revisa el formato con /help (horas HH:MM, salida posterior a la entrada, PIN de 4 cifras, nota obligatoria)."
	case errors.Is(err, models.ErrConnectivity):
		return "⚠️ No se pudo acceder a la base de datos. Inténtalo de nuevo en unos minutos."
	}
	return unexpectedMessage
}

// isExpected - ошибка вызвана действиями пользователя, а не сбоем
func isExpected(err error) bool {
	return !errors.Is(err, models.ErrConnectivity) && userMessage(err) != unexpectedMessage
}

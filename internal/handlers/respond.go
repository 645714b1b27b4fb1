package handlers

import (
	"errors"

	"mialtar/internal/repositories"
	"mialtar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service and repository sentinel errors onto HTTP status
// codes. Anything unrecognized is an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidResetToken):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

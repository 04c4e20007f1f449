package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/characters"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/sessions"
)

// errorStatus maps an error to the HTTP status code it is reported with.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, sessions.ErrInvalidRequest), errors.Is(err, characters.ErrUnknownCharacter):
		return fiber.StatusBadRequest
	case errors.Is(err, game.ErrSessionTerminal):
		return fiber.StatusConflict
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, game.ErrSkillUnavailable):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/sessions"
)

func manager(c *fiber.Ctx) *sessions.Manager {
	return c.Locals("manager").(*sessions.Manager) //nolint: errcheck
}

// CreateSession starts a new session.
func CreateSession(c *fiber.Ctx) error {
	var payload models.CreateSessionRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := manager(c).Create(c.Context(), payload)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession returns the snapshot of a session.
func GetSession(c *fiber.Ctx) error {
	resp, err := manager(c).Get(c.Context(), c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteSession removes a session.
func DeleteSession(c *fiber.Ctx) error {
	if err := manager(c).Delete(c.Context(), c.Params("id")); err != nil {
		return sendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PlaceDisc places a disc in a session.
func PlaceDisc(c *fiber.Ctx) error {
	var payload models.PlacementRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := manager(c).Place(c.Context(), c.Params("id"), payload)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UseSkill uses a skill in a session.
func UseSkill(c *fiber.Ctx) error {
	var payload models.SkillRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := manager(c).UseSkill(c.Context(), c.Params("id"), payload)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

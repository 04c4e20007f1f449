package api

import (
	"github.com/gofiber/fiber/v2"
)

// GetCharacters lists the characters sessions can be created with.
func GetCharacters(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(manager(c).Catalog().List())
}

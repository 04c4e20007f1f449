package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/models"
)

// ResultReader reads finished games.
type ResultReader interface {
	RecentResults(ctx context.Context, limit int) ([]models.GameResult, error)
	Stats(ctx context.Context) (models.ResultStats, error)
}

func results(c *fiber.Ctx) ResultReader {
	return c.Locals("results").(ResultReader) //nolint: errcheck
}

// GetResults returns the most recently finished games.
func GetResults(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must not be negative",
		})
	}

	games, err := results(c).RecentResults(c.Context(), limit)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(games)
}

// GetResultStats returns statistics about all finished games.
func GetResultStats(c *fiber.Ctx) error {
	stats, err := results(c).Stats(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

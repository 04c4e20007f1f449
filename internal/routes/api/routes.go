package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api", middleware.AuthOrToken())

	// Session routes
	apiGroup.Post("/sessions", CreateSession)
	apiGroup.Get("/sessions/:id", GetSession)
	apiGroup.Delete("/sessions/:id", DeleteSession)
	apiGroup.Post("/sessions/:id/placements", PlaceDisc)
	apiGroup.Post("/sessions/:id/skills", UseSkill)

	// Character routes
	apiGroup.Get("/characters", GetCharacters)

	// Result routes
	apiGroup.Get("/results", GetResults)
	apiGroup.Get("/results/stats", GetResultStats)
}

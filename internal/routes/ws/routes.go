package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/middleware"
	"github.com/lk16/holothello/internal/sessions"
	"github.com/lk16/holothello/internal/ws"
)

func handleWs(c *websocket.Conn) {
	manager := c.Locals("manager").(*sessions.Manager) //nolint: errcheck

	h := ws.NewHandler(c, manager)
	err := h.Handle()
	if err != nil {
		slog.Error("ws handle error", "error", err)
	}
}

// upgradeOnly rejects requests that are not websocket upgrades.
func upgradeOnly(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws", middleware.AuthOrToken(), upgradeOnly, websocket.New(handleWs))
}

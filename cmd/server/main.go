package main

import (
	"log"

	"github.com/lk16/holothello/internal"
	"github.com/lk16/holothello/internal/config"
)

func main() {
	config.SetLogLevel()

	// Setup app
	app, cfg, cleanup := internal.SetupApp()
	defer cleanup()

	// Start server
	address := cfg.ServerHost + ":" + cfg.ServerPort
	if err := app.Listen(address); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

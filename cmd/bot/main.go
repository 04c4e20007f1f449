package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lk16/holothello/internal/client"
	"github.com/lk16/holothello/internal/config"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/othello"
)

func main() {
	config.SetLogLevel()

	sessionID := flag.String("session", "", "session to join, a new player vs computer session is created if empty")
	sideName := flag.String("side", "black", "side the bot plays")
	blackCharacter := flag.String("black", "aurora", "character of black when creating a session")
	whiteCharacter := flag.String("white", "mochi", "character of white when creating a session")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed of the move selection policy")
	pollInterval := flag.Duration("poll", 500*time.Millisecond, "how often to check whether the opponent moved")
	flag.Parse()

	cfg := config.LoadBotConfig()

	side, err := othello.ParseSide(*sideName)
	if err != nil {
		slog.Error("Invalid side", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := client.Dial(ctx, cfg.ServerURL, cfg.Token)
	if err != nil {
		slog.Error("Failed to connect", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	id := *sessionID
	if id == "" {
		created, err := c.Create(models.CreateSessionRequest{
			Mode:           models.PlayerVsCPU,
			BlackCharacter: *blackCharacter,
			WhiteCharacter: *whiteCharacter,
			HumanSide:      side.String(),
			Seed:           seed,
		})
		if err != nil {
			slog.Error("Failed to create session", "error", err)
			os.Exit(1)
		}

		id = created.ID
		slog.Info("Created session", "session", id)
	}

	bot := client.NewBot(c, game.NewRandomPolicy(*seed), *pollInterval)

	if _, err = bot.Play(ctx, id, side); err != nil {
		slog.Error("Bot stopped", "error", err)
		os.Exit(1)
	}
}

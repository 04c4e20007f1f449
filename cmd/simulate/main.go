package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lk16/holothello/internal/characters"
	"github.com/lk16/holothello/internal/config"
	"github.com/lk16/holothello/internal/simulation"
)

func main() {
	config.SetLogLevel()

	games := flag.Int("games", 100, "number of games to play")
	seed := flag.Int64("seed", 1, "seed of the first game")
	blackPolicy := flag.String("black-policy", "random", "move selection policy of black")
	whitePolicy := flag.String("white-policy", "random", "move selection policy of white")
	blackCharacter := flag.String("black", "aurora", "character of black")
	whiteCharacter := flag.String("white", "mochi", "character of white")
	charactersFile := flag.String("characters", "", "YAML character catalog, the built in one if empty")
	useSkills := flag.Bool("skills", true, "use skills as soon as they are ready")
	maxHP := flag.Int("hp", 0, "max HP of both sides, the default if 0")
	flag.Parse()

	catalog, err := characters.Load(*charactersFile)
	if err != nil {
		slog.Error("Failed to load characters", "error", err)
		os.Exit(1)
	}

	blackSkills, err := catalog.Skills(*blackCharacter)
	if err != nil {
		slog.Error("Failed to load black character", "error", err)
		os.Exit(1)
	}

	whiteSkills, err := catalog.Skills(*whiteCharacter)
	if err != nil {
		slog.Error("Failed to load white character", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := simulation.Run(ctx, simulation.Options{
		Games:       *games,
		Seed:        *seed,
		BlackPolicy: *blackPolicy,
		WhitePolicy: *whitePolicy,
		BlackSkills: blackSkills,
		WhiteSkills: whiteSkills,
		UseSkills:   *useSkills,
		MaxHP:       *maxHP,
	})
	if err != nil {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal summary", "error", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}

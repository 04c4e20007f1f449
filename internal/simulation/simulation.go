package simulation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/othello"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Options configures a batch of computer vs computer games.
type Options struct {
	Games int
	Seed  int64

	// BlackPolicy and WhitePolicy are policy names, see game.NewPolicy.
	BlackPolicy string
	WhitePolicy string

	BlackSkills [battle.SlotCount]battle.SkillData
	WhiteSkills [battle.SlotCount]battle.SkillData

	// UseSkills makes both sides use every ready skill before placing.
	UseSkills bool

	MaxHP int
	Rules game.Rules

	Logger *slog.Logger
}

// Distribution describes one measured value over all games.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is the outcome of a batch of games.
type Summary struct {
	Games     int                    `json:"games"`
	BlackWins int                    `json:"black_wins"`
	WhiteWins int                    `json:"white_wins"`
	Draws     int                    `json:"draws"`
	Reasons   map[game.EndReason]int `json:"reasons"`

	Moves      Distribution `json:"moves"`
	BlackDiscs Distribution `json:"black_discs"`
	WhiteDiscs Distribution `json:"white_discs"`
	Damage     Distribution `json:"damage"`
}

// outcome is the measured result of one game.
type outcome struct {
	winner     othello.Side
	reason     game.EndReason
	moves      int
	blackDiscs int
	whiteDiscs int
	damage     int
}

// Run plays opts.Games games and summarizes them. It stops early with the
// context error when ctx is done.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games <= 0 {
		return Summary{}, fmt.Errorf("number of games must be positive, got %d", opts.Games)
	}

	for _, name := range []string{opts.BlackPolicy, opts.WhitePolicy} {
		if _, ok := game.NewPolicy(name, 0); !ok {
			return Summary{}, fmt.Errorf("unknown policy %q", name)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make([]outcome, 0, opts.Games)

	for i := range opts.Games {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		out, err := play(opts, opts.Seed+int64(2*i))
		if err != nil {
			return Summary{}, fmt.Errorf("game %d: %w", i, err)
		}

		logger.Debug("Finished simulated game",
			"game", i,
			"winner", out.winner,
			"reason", out.reason,
			"moves", out.moves,
		)

		outcomes = append(outcomes, out)
	}

	return summarize(outcomes), nil
}

// play runs a single game. Black uses seed, White seed+1.
func play(opts Options, seed int64) (outcome, error) {
	session, err := game.NewSession(game.Config{
		MaxHP:       opts.MaxHP,
		BlackSkills: opts.BlackSkills,
		WhiteSkills: opts.WhiteSkills,
		Rules:       opts.Rules,
		Logger:      opts.Logger,
	})
	if err != nil {
		return outcome{}, err
	}

	black, _ := game.NewPolicy(opts.BlackPolicy, seed)
	white, _ := game.NewPolicy(opts.WhitePolicy, seed+1)

	damage := 0

	for !session.IsTerminal() {
		side := session.ToMove()

		if opts.UseSkills {
			damage += useReadySkills(session, side)
			if session.IsTerminal() {
				break
			}
		}

		policy := black
		if side == othello.White {
			policy = white
		}

		move, ok := policy.SelectMove(session.Board(), side)
		if !ok {
			return outcome{}, fmt.Errorf("no move for %s", side)
		}

		result, err := session.RequestPlacement(side, move.X, move.Y)
		if err != nil {
			return outcome{}, err
		}

		damage += result.Damage
	}

	snapshot := session.Snapshot()

	return outcome{
		winner:     snapshot.Winner,
		reason:     snapshot.Reason,
		moves:      snapshot.Moves,
		blackDiscs: snapshot.Black.Discs,
		whiteDiscs: snapshot.White.Discs,
		damage:     damage,
	}, nil
}

// useReadySkills uses every skill of side that can be used now and returns the damage dealt.
func useReadySkills(session *game.Session, side othello.Side) int {
	damage := 0

	skills := session.Skills(side)
	for slot := range battle.SlotCount {
		if !skills.CanInvoke(slot) || session.IsTerminal() {
			continue
		}

		result, err := session.RequestSkill(side, slot)
		if err != nil {
			// Limited by the rules
			return damage
		}
		damage += result.Damage
	}

	return damage
}

func summarize(outcomes []outcome) Summary {
	summary := Summary{
		Games:   len(outcomes),
		Reasons: make(map[game.EndReason]int),
	}

	moves := make([]float64, len(outcomes))
	blackDiscs := make([]float64, len(outcomes))
	whiteDiscs := make([]float64, len(outcomes))
	damage := make([]float64, len(outcomes))

	for i, out := range outcomes {
		switch out.winner {
		case othello.Black:
			summary.BlackWins++
		case othello.White:
			summary.WhiteWins++
		default:
			summary.Draws++
		}

		summary.Reasons[out.reason]++

		moves[i] = float64(out.moves)
		blackDiscs[i] = float64(out.blackDiscs)
		whiteDiscs[i] = float64(out.whiteDiscs)
		damage[i] = float64(out.damage)
	}

	summary.Moves = distribution(moves)
	summary.BlackDiscs = distribution(blackDiscs)
	summary.WhiteDiscs = distribution(whiteDiscs)
	summary.Damage = distribution(damage)

	return summary
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}

	return Distribution{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

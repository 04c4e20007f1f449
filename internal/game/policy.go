package game

import (
	"math/rand"

	"github.com/lk16/holothello/internal/othello"
)

// MoveSelectionPolicy chooses a move for a computer controlled side.
type MoveSelectionPolicy interface {
	// SelectMove returns false if side has no legal move.
	SelectMove(board othello.Board, side othello.Side) (othello.Coord, bool)
}

// RandomPolicy picks a uniformly random legal move.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates a RandomPolicy with a fixed seed.
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// SelectMove implements MoveSelectionPolicy.
func (p *RandomPolicy) SelectMove(board othello.Board, side othello.Side) (othello.Coord, bool) {
	moves := othello.EnumerateLegalMoves(board, side)
	if len(moves) == 0 {
		return othello.Coord{}, false
	}
	return moves[p.rng.Intn(len(moves))], true
}

// NewPolicy creates a policy by name. Only "random" exists, the empty name selects it.
func NewPolicy(name string, seed int64) (MoveSelectionPolicy, bool) {
	switch name {
	case "random", "":
		return NewRandomPolicy(seed), true
	default:
		return nil, false
	}
}

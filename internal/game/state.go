package game

import (
	"fmt"
	"log/slog"

	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/othello"
)

// State is the complete internal state of a session, used to store and restore it.
type State struct {
	Board     string             `json:"board"`
	ToMove    othello.Side       `json:"to_move"`
	Reason    EndReason          `json:"reason"`
	HP        [2]battle.HPPool   `json:"hp"`
	Skills    [2]battle.SkillSet `json:"skills"`
	SkillUses [2]int             `json:"skill_uses"`
	History   []othello.Coord    `json:"history"`
	Rules     Rules              `json:"rules"`
}

// State exports the session state.
func (s *Session) State() State {
	return State{
		Board:     s.board.String(),
		ToMove:    s.turn.Current(),
		Reason:    s.turn.Reason(),
		HP:        s.hp,
		Skills:    s.skills,
		SkillUses: s.skillUses,
		History:   s.History(),
		Rules:     s.rules,
	}
}

// NewSessionFromState restores a session exported with State.
func NewSessionFromState(state State, logger *slog.Logger) (*Session, error) {
	board, err := othello.NewBoardFromString(state.Board)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !state.ToMove.IsSide() {
		return nil, fmt.Errorf("%w: side to move %s", ErrInvalidConfig, state.ToMove)
	}

	if logger == nil {
		logger = slog.Default()
	}

	turn := NewTurnController(state.ToMove)
	turn.End(state.Reason)

	history := state.History
	if history == nil {
		history = make([]othello.Coord, 0)
	}

	return &Session{
		board:     board,
		turn:      turn,
		hp:        state.HP,
		skills:    state.Skills,
		skillUses: state.SkillUses,
		history:   history,
		rules:     state.Rules,
		logger:    logger,
	}, nil
}

package game

import (
	"errors"

	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/othello"
)

var (
	ErrInvalidMove      = othello.ErrInvalidMove
	ErrSkillUnavailable = battle.ErrSkillUnavailable
	ErrSessionTerminal  = errors.New("session has ended")
	ErrInvalidConfig    = errors.New("invalid session configuration")
)

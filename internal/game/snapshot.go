package game

import (
	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/othello"
)

// SlotSnapshot is the observable state of one skill slot.
type SlotSnapshot struct {
	Name              string           `json:"name"`
	Ultimate          bool             `json:"ultimate"`
	State             battle.SlotState `json:"state"`
	CooldownRemaining int              `json:"cooldown_remaining"`
	UsedOnce          bool             `json:"used_once"`
}

// SideSnapshot is the observable state of one side.
type SideSnapshot struct {
	Discs  int                            `json:"discs"`
	HP     battle.HPPool                  `json:"hp"`
	Skills [battle.SlotCount]SlotSnapshot `json:"skills"`
}

// Snapshot is everything a presentation layer may show about a session.
type Snapshot struct {
	Board      string          `json:"board"`
	ToMove     othello.Side    `json:"to_move"`
	Black      SideSnapshot    `json:"black"`
	White      SideSnapshot    `json:"white"`
	LegalMoves []othello.Coord `json:"legal_moves"`
	Moves      int             `json:"moves"`
	Terminal   bool            `json:"terminal"`
	Reason     EndReason       `json:"reason,omitempty"`

	// Winner is Empty when the session is not over or ended in a draw.
	Winner othello.Side `json:"winner"`
}

// Snapshot returns the observable state of the session.
func (s *Session) Snapshot() Snapshot {
	black, white := othello.Score(s.board)

	return Snapshot{
		Board:      s.board.String(),
		ToMove:     s.turn.Current(),
		Black:      s.sideSnapshot(othello.Black, black),
		White:      s.sideSnapshot(othello.White, white),
		LegalMoves: s.LegalMoves(),
		Moves:      len(s.history),
		Terminal:   s.turn.IsTerminal(),
		Reason:     s.turn.Reason(),
		Winner:     s.Winner(),
	}
}

func (s *Session) sideSnapshot(side othello.Side, discs int) SideSnapshot {
	i := sideIndex(side)

	snapshot := SideSnapshot{
		Discs: discs,
		HP:    s.hp[i],
	}

	for slot, skill := range s.skills[i].Slots {
		snapshot.Skills[slot] = SlotSnapshot{
			Name:              skill.Data.Name,
			Ultimate:          skill.Data.Ultimate,
			State:             skill.State(),
			CooldownRemaining: skill.CooldownRemaining,
			UsedOnce:          skill.UsedOnce,
		}
	}

	return snapshot
}

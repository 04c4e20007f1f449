package game

import (
	"strings"
	"testing"

	"github.com/lk16/holothello/internal/battle"
	"github.com/lk16/holothello/internal/othello"
	"github.com/stretchr/testify/require"
)

// boardFromRows parses a board written as 8 rows.
func boardFromRows(t *testing.T, rows ...string) *othello.Board {
	t.Helper()

	require.Len(t, rows, othello.Size)

	board, err := othello.NewBoardFromString(strings.Join(rows, ""))
	require.NoError(t, err)
	return &board
}

// forcedPassBoard lets Black play a1 after which White must pass, then h1 which ends the game.
func forcedPassBoard(t *testing.T) *othello.Board {
	t.Helper()

	return boardFromRows(t,
		"........",
		"O......O",
		"X......X",
		"X......X",
		"X......X",
		"X......X",
		"X......X",
		"X......X",
	)
}

// lastMoveBoard has a single empty square at a1 which Black can fill.
func lastMoveBoard(t *testing.T) *othello.Board {
	t.Helper()

	return boardFromRows(t,
		".OXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
	)
}

func testSkills() [battle.SlotCount]battle.SkillData {
	return [battle.SlotCount]battle.SkillData{
		{Name: "strike", Cooldown: 2, Damage: 300},
		{Name: "recover", Cooldown: 3, Heal: 500},
		{Name: "finale", Cooldown: 0, Damage: 2000, Ultimate: true},
	}
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()

	if cfg.BlackSkills == [battle.SlotCount]battle.SkillData{} {
		cfg.BlackSkills = testSkills()
	}
	if cfg.WhiteSkills == [battle.SlotCount]battle.SkillData{} {
		cfg.WhiteSkills = testSkills()
	}

	session, err := NewSession(cfg)
	require.NoError(t, err)
	return session
}

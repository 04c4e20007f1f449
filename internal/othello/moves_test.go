package othello

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustBoard parses a board written as 8 rows, failing the test on error.
func mustBoard(t *testing.T, rows ...string) Board {
	t.Helper()

	board, err := NewBoardFromString(rows[0] + rows[1] + rows[2] + rows[3] + rows[4] + rows[5] + rows[6] + rows[7])
	require.NoError(t, err)
	return board
}

func TestApplyMove_Opening(t *testing.T) {
	board := NewBoardStart()

	event, err := ApplyMove(&board, Black, 2, 3)
	require.NoError(t, err)

	require.Equal(t, Coord{2, 3}, event.Origin)
	require.Equal(t, Black, event.Side)
	require.Equal(t, []Coord{{3, 3}}, event.Flipped)
	require.Equal(t, 1, event.Count())

	black, white := Score(board)
	require.Equal(t, 4, black)
	require.Equal(t, 1, white)
}

func TestApplyMove_Invalid(t *testing.T) {
	tests := []struct {
		name string
		side Side
		x, y int
	}{
		{"occupied", Black, 3, 3},
		{"noFlips", Black, 0, 0},
		{"offBoardLow", Black, -1, 3},
		{"offBoardHigh", Black, 2, 8},
		{"notASide", Empty, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoardStart()

			_, err := ApplyMove(&board, tt.side, tt.x, tt.y)
			require.ErrorIs(t, err, ErrInvalidMove)

			// Board must be left untouched
			require.True(t, board.Equal(NewBoardStart()))
		})
	}
}

func TestApplyMove_FiveFlips(t *testing.T) {
	board := mustBoard(t,
		"XOOOOO..",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	event, err := ApplyMove(&board, Black, 6, 0)
	require.NoError(t, err)
	require.Equal(t, 5, event.Count())

	// Ordered by distance from the origin
	require.Equal(t, []Coord{{5, 0}, {4, 0}, {3, 0}, {2, 0}, {1, 0}}, event.Flipped)

	black, white := Score(board)
	require.Equal(t, 7, black)
	require.Equal(t, 0, white)
}

func TestComputeFlips_MultipleDirections(t *testing.T) {
	board := mustBoard(t,
		"X.X.X...",
		".OOO....",
		"XO.OX...",
		".OOO....",
		"X.X.X...",
		"........",
		"........",
		"........",
	)

	before := board
	event := ComputeFlips(board, Black, 2, 2)

	// All 8 neighbours are bracketed
	require.Equal(t, 8, event.Count())
	for _, c := range event.Flipped {
		require.Equal(t, 1, distance(Coord{2, 2}, c))
	}

	// Flips are unique
	seen := make(map[Coord]bool)
	for _, c := range event.Flipped {
		require.False(t, seen[c])
		seen[c] = true
	}

	require.True(t, before.Equal(board))
}

func TestComputeFlips_LongRunIsOrdered(t *testing.T) {
	board := mustBoard(t,
		"X.......",
		".O......",
		"..O.....",
		"...O....",
		"........",
		"....O...",
		"....X...",
		"........",
	)

	event := ComputeFlips(board, Black, 4, 4)
	require.Equal(t, []Coord{{3, 3}, {4, 5}, {2, 2}, {1, 1}}, event.Flipped)
}

func TestCanFlipInDirection(t *testing.T) {
	board := mustBoard(t,
		"XOO.OX..",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	require.True(t, CanFlipInDirection(board, Black, 3, 0, -1, 0))
	require.True(t, CanFlipInDirection(board, Black, 3, 0, 1, 0))
	require.False(t, CanFlipInDirection(board, Black, 3, 0, 0, 1))
	require.False(t, CanFlipInDirection(board, White, 3, 0, -1, 0))

	// Walking off the board invalidates the direction
	require.False(t, CanFlipInDirection(board, Black, 7, 0, 1, 0))

	// The zero direction never flips
	require.False(t, CanFlipInDirection(board, Black, 3, 0, 0, 0))
}

func TestCanFlipInDirection_EmptyGap(t *testing.T) {
	board := mustBoard(t,
		"..O.X...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	require.False(t, CanFlipInDirection(board, Black, 1, 0, 1, 0))
	require.False(t, IsLegalMove(board, Black, 1, 0))
}

func TestEnumerateLegalMoves_Start(t *testing.T) {
	board := NewBoardStart()

	moves := EnumerateLegalMoves(board, Black)
	require.Equal(t, []Coord{{3, 2}, {2, 3}, {5, 4}, {4, 5}}, moves)

	// Same board, same result
	require.Equal(t, moves, EnumerateLegalMoves(board, Black))

	require.Len(t, EnumerateLegalMoves(board, White), 4)
	require.True(t, HasLegalMove(board, Black))
}

func TestEnumerateLegalMoves_None(t *testing.T) {
	board := NewBoardEmpty()
	board.Set(Coord{0, 0}, Black)
	board.Set(Coord{7, 7}, White)

	require.Empty(t, EnumerateLegalMoves(board, Black))
	require.Empty(t, EnumerateLegalMoves(board, White))
	require.False(t, HasLegalMove(board, Black))
}

func TestIsLegalMove_MatchesComputeFlips(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec

	for range 50 {
		record := NewRecord()

		for !record.IsFinished() {
			board := record.Board()

			for _, side := range []Side{Black, White} {
				for index := range Cells {
					c := CoordFromIndex(index)
					legal := IsLegalMove(board, side, c.X, c.Y)
					flips := ComputeFlips(board, side, c.X, c.Y)
					require.Equal(t, legal, flips.Count() > 0, "side %s at %s", side, c.Field())
				}
			}

			moves := EnumerateLegalMoves(board, record.ToMove())
			require.NoError(t, record.PushMove(moves[rng.Intn(len(moves))]))
		}
	}
}

func TestScore(t *testing.T) {
	board := mustBoard(t,
		"XXXXXXXX",
		"OOOOOOOO",
		"X.......",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	black, white := Score(board)
	require.Equal(t, 9, black)
	require.Equal(t, 8, white)
}

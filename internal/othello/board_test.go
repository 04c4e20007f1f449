package othello

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBoardStart(t *testing.T) {
	board := NewBoardStart()

	require.Equal(t, Black, board.At(Coord{3, 4}))
	require.Equal(t, Black, board.At(Coord{4, 3}))
	require.Equal(t, White, board.At(Coord{3, 3}))
	require.Equal(t, White, board.At(Coord{4, 4}))

	black, white, empty := board.Counts()
	require.Equal(t, 2, black)
	require.Equal(t, 2, white)
	require.Equal(t, 60, empty)
}

func TestNewBoardEmpty(t *testing.T) {
	board := NewBoardEmpty()

	black, white, empty := board.Counts()
	require.Equal(t, 0, black)
	require.Equal(t, 0, white)
	require.Equal(t, Cells, empty)
	require.False(t, board.IsFull())
}

func TestBoard_AtOutOfBounds(t *testing.T) {
	board := NewBoardStart()

	require.Equal(t, Empty, board.At(Coord{-1, 0}))
	require.Equal(t, Empty, board.At(Coord{0, 8}))

	// Setting out of bounds is ignored
	board.Set(Coord{8, 8}, Black)
	require.True(t, board.Equal(NewBoardStart()))
}

func TestBoard_String(t *testing.T) {
	board := NewBoardStart()

	s := board.String()
	require.Len(t, s, Cells)
	require.Equal(t, "...........................OX......XO...........................", s)

	parsed, err := NewBoardFromString(s)
	require.NoError(t, err)
	require.True(t, board.Equal(parsed))
}

func TestNewBoardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"start", NewBoardStart().String(), false},
		{"rows", "........\n........\n........\n...OX...\n...XO...\n........\n........\n........", false},
		{"tooShort", "....", true},
		{"invalidChar", "...........................OX......XO..........................?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewBoardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, board.Equal(NewBoardStart()))
		})
	}
}

func TestBoard_CountsAlwaysSumToCells(t *testing.T) {
	record := NewRecord()

	for !record.IsFinished() {
		board := record.Board()
		black, white, empty := board.Counts()
		require.Equal(t, Cells, black+white+empty)

		moves := EnumerateLegalMoves(board, record.ToMove())
		require.NotEmpty(t, moves)
		require.NoError(t, record.PushMove(moves[len(moves)-1]))
	}

	black, white, empty := record.Board().Counts()
	require.Equal(t, Cells, black+white+empty)
}

func TestBoard_ASCIIArtLines(t *testing.T) {
	lines := NewBoardStart().ASCIIArtLines(Black)

	require.Len(t, lines, 10)
	require.Equal(t, "+-a-b-c-d-e-f-g-h-+", lines[0])
	require.Equal(t, "3       ·         |", lines[3])
	require.Equal(t, "4     · ○ ●       |", lines[4])
	require.Equal(t, "+-----------------+", lines[9])
}

func TestCoord_Field(t *testing.T) {
	require.Equal(t, "a1", Coord{0, 0}.Field())
	require.Equal(t, "h8", Coord{7, 7}.Field())
	require.Equal(t, "c4", Coord{2, 3}.Field())
	require.Equal(t, "--", Coord{8, 0}.Field())

	for index := range Cells {
		c := CoordFromIndex(index)
		require.Equal(t, index, c.Index())

		parsed, err := FieldToCoord(c.Field())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}
}

func TestFieldToCoord_Invalid(t *testing.T) {
	for _, field := range []string{"", "a", "a9", "i1", "a10", "--"} {
		_, err := FieldToCoord(field)
		require.Error(t, err, "field %q should be invalid", field)
	}
}

func TestSide_Opponent(t *testing.T) {
	require.Equal(t, White, Black.Opponent())
	require.Equal(t, Black, White.Opponent())
	require.Equal(t, Empty, Empty.Opponent())
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("BLACK")
	require.NoError(t, err)
	require.Equal(t, Black, side)

	side, err = ParseSide("w")
	require.NoError(t, err)
	require.Equal(t, White, side)

	_, err = ParseSide("red")
	require.Error(t, err)
}

func TestCell_Text(t *testing.T) {
	for _, cell := range []Cell{Empty, Black, White} {
		text, err := cell.MarshalText()
		require.NoError(t, err)

		var parsed Cell
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, cell, parsed)
	}
}

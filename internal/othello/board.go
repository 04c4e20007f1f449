package othello

import (
	"fmt"
	"strings"
)

const (
	Size   = 8
	Cells  = Size * Size
	MaxX   = Size
	MaxY   = Size
	center = Size / 2
)

// Cell is the content of a single square.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Side is one of the two players. Only Black and White are valid sides.
type Side = Cell

// Opponent returns the other side. Empty has no opponent and returns Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsSide checks if the cell value is a playable side.
func (c Cell) IsSide() bool {
	return c == Black || c == White
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// ParseSide converts "black"/"white" (any case, or "b"/"w") to a side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	default:
		return Empty, fmt.Errorf("invalid side: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cell) UnmarshalText(text []byte) error {
	if string(text) == "empty" {
		*c = Empty
		return nil
	}

	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*c = side
	return nil
}

// Coord is a square on the board. X is the column, Y is the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds checks if the coordinate lies on the board.
func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// Index returns the flat index of the coordinate.
func (c Coord) Index() int {
	return c.Y*Size + c.X
}

// Field returns the field notation, such as "c4".
func (c Coord) Field() string {
	if !c.InBounds() {
		return "--"
	}
	return string([]byte{byte('a' + c.X), byte('1' + c.Y)})
}

// CoordFromIndex converts a flat index back to a coordinate.
func CoordFromIndex(index int) Coord {
	return Coord{X: index % Size, Y: index / Size}
}

// FieldToCoord converts a field notation (e.g. "a1", "h8") to a coordinate.
func FieldToCoord(field string) (Coord, error) {
	if len(field) != 2 {
		return Coord{}, fmt.Errorf("invalid field length: %s", field)
	}

	field = strings.ToLower(field)

	if !('a' <= field[0] && field[0] <= 'h' && '1' <= field[1] && field[1] <= '8') {
		return Coord{}, fmt.Errorf("invalid field: %s", field)
	}

	return Coord{X: int(field[0] - 'a'), Y: int(field[1] - '1')}, nil
}

// Board is an 8x8 grid of cells. The zero value is an empty board.
type Board struct {
	cells [Cells]Cell
}

// NewBoardEmpty creates a board without any discs.
func NewBoardEmpty() Board {
	return Board{}
}

// NewBoardStart creates a board with the standard four center discs.
func NewBoardStart() Board {
	var b Board
	b.Set(Coord{center - 1, center - 1}, White)
	b.Set(Coord{center, center}, White)
	b.Set(Coord{center - 1, center}, Black)
	b.Set(Coord{center, center - 1}, Black)
	return b
}

// NewBoardFromString parses the 64 character representation produced by String.
// Whitespace is ignored so boards can be written one row per line.
func NewBoardFromString(s string) (Board, error) {
	s = strings.Join(strings.Fields(s), "")

	if len(s) != Cells {
		return Board{}, fmt.Errorf("board string must be %d characters long, got %d", Cells, len(s))
	}

	var b Board
	for i := range Cells {
		switch s[i] {
		case '.', '-':
			b.cells[i] = Empty
		case 'X', 'x', '*':
			b.cells[i] = Black
		case 'O', 'o':
			b.cells[i] = White
		default:
			return Board{}, fmt.Errorf("invalid character %q at index %d", s[i], i)
		}
	}

	return b, nil
}

// At returns the cell at the coordinate. Out of range coordinates are Empty.
func (b Board) At(c Coord) Cell {
	if !c.InBounds() {
		return Empty
	}
	return b.cells[c.Index()]
}

// Set overwrites a single cell. Out of range coordinates are ignored.
func (b *Board) Set(c Coord, cell Cell) {
	if !c.InBounds() {
		return
	}
	b.cells[c.Index()] = cell
}

// Counts returns the number of black, white and empty cells.
func (b Board) Counts() (black, white, empty int) {
	for _, cell := range b.cells {
		switch cell {
		case Black:
			black++
		case White:
			white++
		default:
			empty++
		}
	}
	return black, white, empty
}

// IsFull checks if there are no empty cells left.
func (b Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Equal checks if two boards hold the same discs.
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// ASCIIArtLines returns the ascii art lines for the board. Legal moves of
// toMove are marked with a dot; pass Empty to hide them.
func (b Board) ASCIIArtLines(toMove Side) []string {
	moves := make(map[int]bool)
	if toMove.IsSide() {
		for _, move := range EnumerateLegalMoves(b, toMove) {
			moves[move.Index()] = true
		}
	}

	lines := make([]string, MaxY+2)

	lines[0] = "+-a-b-c-d-e-f-g-h-+"
	for y := range MaxY {
		line := fmt.Sprintf("%d ", y+1)

		for x := range MaxX {
			index := (y * MaxX) + x

			switch {
			case b.cells[index] == White:
				line += "○ "
			case b.cells[index] == Black:
				line += "● "
			case moves[index]:
				line += "· "
			default:
				line += "  "
			}
		}

		lines[y+1] = line + "|"
	}

	lines[MaxY+1] = "+-----------------+"

	return lines
}

// Print prints the board to the console. This is used for debugging.
func (b Board) Print(toMove Side) {
	for _, line := range b.ASCIIArtLines(toMove) {
		fmt.Println(line)
	}
}

// String returns the 64 character representation of the board.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Cells)

	for _, cell := range b.cells {
		switch cell {
		case Black:
			sb.WriteByte('X')
		case White:
			sb.WriteByte('O')
		default:
			sb.WriteByte('.')
		}
	}

	return sb.String()
}

package othello

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidMove is returned when a disc cannot be placed on a square.
var ErrInvalidMove = errors.New("invalid move")

// directions holds the 8 walking directions as (dx, dy).
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// FlipEvent describes the result of one placement.
type FlipEvent struct {
	Origin Coord `json:"origin"`
	Side   Side  `json:"side"`

	// Flipped is ordered by distance from Origin, nearest first.
	Flipped []Coord `json:"flipped"`
}

// Count returns the number of flipped discs.
func (e FlipEvent) Count() int {
	return len(e.Flipped)
}

// CanFlipInDirection checks if placing side on (x, y) brackets at least one
// opponent disc when walking in direction (dx, dy).
func CanFlipInDirection(b Board, side Side, x, y, dx, dy int) bool {
	return len(runInDirection(b, side, x, y, dx, dy)) > 0
}

// runInDirection returns the opponent discs bracketed in one direction, or nil.
func runInDirection(b Board, side Side, x, y, dx, dy int) []Coord {
	if (dx == 0 && dy == 0) || !side.IsSide() {
		return nil
	}

	opponent := side.Opponent()

	var run []Coord
	for s := 1; ; s++ {
		cur := Coord{X: x + dx*s, Y: y + dy*s}
		if !cur.InBounds() {
			return nil
		}

		switch b.At(cur) {
		case opponent:
			run = append(run, cur)
		case side:
			return run
		default:
			return nil
		}
	}
}

// IsLegalMove checks if side may place a disc on (x, y).
func IsLegalMove(b Board, side Side, x, y int) bool {
	c := Coord{X: x, Y: y}
	if !c.InBounds() || b.At(c) != Empty || !side.IsSide() {
		return false
	}

	for _, dir := range directions {
		if CanFlipInDirection(b, side, x, y, dir[0], dir[1]) {
			return true
		}
	}

	return false
}

// ComputeFlips returns all discs that would flip if side played (x, y).
// The board is not modified. Illegal moves yield an event without flips.
func ComputeFlips(b Board, side Side, x, y int) FlipEvent {
	origin := Coord{X: x, Y: y}
	event := FlipEvent{Origin: origin, Side: side, Flipped: []Coord{}}

	if !origin.InBounds() || b.At(origin) != Empty {
		return event
	}

	seen := make(map[int]bool)
	for _, dir := range directions {
		for _, c := range runInDirection(b, side, x, y, dir[0], dir[1]) {
			if seen[c.Index()] {
				continue
			}
			seen[c.Index()] = true
			event.Flipped = append(event.Flipped, c)
		}
	}

	sort.SliceStable(event.Flipped, func(i, j int) bool {
		return distance(origin, event.Flipped[i]) < distance(origin, event.Flipped[j])
	})

	return event
}

// distance is the number of king steps between two squares.
func distance(a, b Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ApplyMove places a disc for side on (x, y) and flips the bracketed discs.
// The board is left untouched when the move is not legal.
func ApplyMove(b *Board, side Side, x, y int) (FlipEvent, error) {
	if !side.IsSide() {
		return FlipEvent{}, fmt.Errorf("%w: %s is not a side", ErrInvalidMove, side)
	}

	origin := Coord{X: x, Y: y}
	if !origin.InBounds() {
		return FlipEvent{}, fmt.Errorf("%w: (%d, %d) is off the board", ErrInvalidMove, x, y)
	}

	if b.At(origin) != Empty {
		return FlipEvent{}, fmt.Errorf("%w: %s is occupied", ErrInvalidMove, origin.Field())
	}

	event := ComputeFlips(*b, side, x, y)
	if event.Count() == 0 {
		return FlipEvent{}, fmt.Errorf("%w: %s flips nothing for %s", ErrInvalidMove, origin.Field(), side)
	}

	b.Set(origin, side)
	for _, c := range event.Flipped {
		b.Set(c, side)
	}

	return event, nil
}

// EnumerateLegalMoves returns all legal moves for side in ascending index order.
func EnumerateLegalMoves(b Board, side Side) []Coord {
	moves := make([]Coord, 0)

	for index := range Cells {
		c := CoordFromIndex(index)
		if IsLegalMove(b, side, c.X, c.Y) {
			moves = append(moves, c)
		}
	}

	return moves
}

// HasLegalMove checks if side has at least one legal move.
func HasLegalMove(b Board, side Side) bool {
	for index := range Cells {
		c := CoordFromIndex(index)
		if IsLegalMove(b, side, c.X, c.Y) {
			return true
		}
	}
	return false
}

// Score counts the discs of both sides.
func Score(b Board) (black, white int) {
	black, white, _ = b.Counts()
	return black, white
}

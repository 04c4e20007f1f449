package othello

import (
	"fmt"
	"strings"
)

// Record is the move history of a game, either complete or in progress.
// Passes are not stored, they follow from the rules when replaying.
type Record struct {
	start     Board
	startSide Side

	// board and toMove describe the position after the last move.
	board  Board
	toMove Side

	moves []Coord
}

// NewRecord creates an empty record starting from the standard position with Black to move.
func NewRecord() *Record {
	return NewRecordWithStart(NewBoardStart(), Black)
}

// NewRecordWithStart creates an empty record with a custom start position.
func NewRecordWithStart(start Board, toMove Side) *Record {
	return &Record{
		start:     start,
		startSide: toMove,
		board:     start,
		toMove:    toMove,
		moves:     make([]Coord, 0),
	}
}

// NewRecordFromString replays a space separated list of fields, such as "f5 d6 c3".
func NewRecordFromString(s string) (*Record, error) {
	record := NewRecord()

	for _, word := range strings.Fields(s) {
		move, err := FieldToCoord(word)
		if err != nil {
			return nil, fmt.Errorf("failed to parse move %s: %w", word, err)
		}

		if err = record.PushMove(move); err != nil {
			return nil, fmt.Errorf("failed to push move %s: %w", word, err)
		}
	}

	return record, nil
}

// PushMove plays a move for the side to move. If the opponent then has no
// moves but the mover does, the mover stays on turn.
func (r *Record) PushMove(move Coord) error {
	if _, err := ApplyMove(&r.board, r.toMove, move.X, move.Y); err != nil {
		return err
	}

	r.moves = append(r.moves, move)

	if HasLegalMove(r.board, r.toMove.Opponent()) {
		r.toMove = r.toMove.Opponent()
	}

	return nil
}

// Start returns the position the record was started from.
func (r *Record) Start() (Board, Side) {
	return r.start, r.startSide
}

// Board returns the board after the last move.
func (r *Record) Board() Board {
	return r.board
}

// ToMove returns the side that plays the next move.
func (r *Record) ToMove() Side {
	return r.toMove
}

// Moves returns a copy of the played moves.
func (r *Record) Moves() []Coord {
	return append([]Coord{}, r.moves...)
}

// Len returns the number of played moves.
func (r *Record) Len() int {
	return len(r.moves)
}

// IsFinished checks if neither side can move.
func (r *Record) IsFinished() bool {
	return !HasLegalMove(r.board, Black) && !HasLegalMove(r.board, White)
}

// String returns the moves in field notation.
func (r *Record) String() string {
	fields := make([]string, len(r.moves))
	for i, move := range r.moves {
		fields[i] = move.Field()
	}
	return strings.Join(fields, " ")
}

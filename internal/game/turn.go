package game

import (
	"github.com/lk16/holothello/internal/othello"
)

// EndReason tells why a session ended.
type EndReason string

const (
	NotEnded        EndReason = ""
	BothSidesPassed EndReason = "both_sides_passed"
	BoardFull       EndReason = "board_full"
	HPDepleted      EndReason = "hp_depleted"
)

// TurnController tracks the side to move and whether the game ended.
type TurnController struct {
	current othello.Side
	reason  EndReason
}

// NewTurnController starts with side to move.
func NewTurnController(side othello.Side) *TurnController {
	return &TurnController{current: side}
}

// Current returns the side to move. After the game ended it returns the
// side that was to move last.
func (tc *TurnController) Current() othello.Side {
	return tc.current
}

// IsTerminal checks if the game ended.
func (tc *TurnController) IsTerminal() bool {
	return tc.reason != NotEnded
}

// Reason returns why the game ended, or NotEnded.
func (tc *TurnController) Reason() EndReason {
	return tc.reason
}

// End marks the game as ended. The first reason sticks.
func (tc *TurnController) End(reason EndReason) {
	if tc.IsTerminal() || reason == NotEnded {
		return
	}
	tc.reason = reason
}

// AfterMove advances the turn after mover placed a disc on board.
// It returns true if the opponent was skipped.
func (tc *TurnController) AfterMove(board othello.Board, mover othello.Side) bool {
	if tc.IsTerminal() {
		return false
	}

	if board.IsFull() {
		tc.End(BoardFull)
		return false
	}

	opponent := mover.Opponent()

	if othello.HasLegalMove(board, opponent) {
		tc.current = opponent
		return false
	}

	if othello.HasLegalMove(board, mover) {
		tc.current = mover
		return true
	}

	tc.current = mover
	tc.End(BothSidesPassed)
	return false
}

// Resolve makes sure the side to move can move on board. If it can not,
// the turn passes to the opponent or the game ends.
func (tc *TurnController) Resolve(board othello.Board) {
	if tc.IsTerminal() {
		return
	}

	if board.IsFull() {
		tc.End(BoardFull)
		return
	}

	if othello.HasLegalMove(board, tc.current) {
		return
	}

	if othello.HasLegalMove(board, tc.current.Opponent()) {
		tc.current = tc.current.Opponent()
		return
	}

	tc.End(BothSidesPassed)
}

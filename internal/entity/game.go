package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

const (
	statusDraw   = "It's a Draw!"
	statusWinner = "Winner: "
	statusNext   = "Next player: "
)

// Game - board history of a single match. The zero-th snapshot is always the empty board.
type Game struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	CurrentMove int     `json:"current_move"`
	Ascending   bool    `json:"ascending"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		History:     []Board{{}},
		CurrentMove: 0,
		Ascending:   true,
	}
}

// CurrentBoard - returns the snapshot selected by CurrentMove.
func (that *Game) CurrentBoard() Board {
	return that.History[that.CurrentMove]
}

// NextMark - X moves on even pointers, O on odd ones.
func (that *Game) NextMark() Mark {
	if that.CurrentMove%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

func (that *Game) Result() Result {
	return Evaluate(that.CurrentBoard())
}

// Play - places the next mark on cell. An occupied cell or a finished board is
// ignored and reported as false without an error.
func (that *Game) Play(cell int) (bool, error) {
	if !validCell(cell) {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	current := that.CurrentBoard()
	if current[cell] != EmptyCell || Evaluate(current).IsOver() {
		return false, nil
	}

	next := current
	next[cell] = that.NextMark()

	history := make([]Board, that.CurrentMove+1, that.CurrentMove+2)
	copy(history, that.History[:that.CurrentMove+1])

	that.History = append(history, next)
	that.CurrentMove = len(that.History) - 1

	return true, nil
}

// JumpTo - selects a past (or future) snapshot without touching the history.
func (that *Game) JumpTo(move int) error {
	if move < 0 || move >= len(that.History) {
		return fmt.Errorf("%w: move %d of %d", apperror.ErrMoveOutOfRange, move, len(that.History))
	}

	that.CurrentMove = move

	return nil
}

func (that *Game) ToggleOrder() {
	that.Ascending = !that.Ascending
}

func (that *Game) Status() string {
	result := that.Result()

	switch result.Outcome {
	case OutcomeDraw:
		return statusDraw
	case OutcomeWin:
		return statusWinner + string(result.Winner)
	default:
		return statusNext + string(that.NextMark())
	}
}

// MoveLocation - 1-based row and column of the cell placed by move.
func (that *Game) MoveLocation(move int) (int, int, bool) {
	if move <= 0 || move >= len(that.History) {
		return 0, 0, false
	}

	cell, ok := that.History[move-1].diff(that.History[move])
	if !ok {
		return 0, 0, false
	}

	return cell/3 + 1, cell%3 + 1, true
}

// Clone - deep copy, so stored games never share history with callers.
func (that *Game) Clone() *Game {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return &Game{
		ID:          that.ID,
		History:     history,
		CurrentMove: that.CurrentMove,
		Ascending:   that.Ascending,
	}
}

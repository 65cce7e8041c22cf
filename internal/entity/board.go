package entity

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const BoardSize = 9

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
)

// Line - three cell indices that win when uniformly marked.
type Line [3]int

// WinLines are checked in this order; the first match is reported.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

// Result - outcome of evaluating a board. Line and Winner are set only for OutcomeWin.
type Result struct {
	Outcome Outcome `json:"outcome,omitempty"`
	Winner  Mark    `json:"winner,omitempty"`
	Line    *Line   `json:"line,omitempty"`
}

// Evaluate - reports the first winning line in WinLines order, a draw when the
// board is full, or no result.
func Evaluate(board Board) Result {
	for _, combo := range WinLines {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			line := combo
			return Result{Outcome: OutcomeWin, Winner: a, Line: &line}
		}
	}

	// the game will continue until all the squares are full
	if board.Full() {
		return Result{Outcome: OutcomeDraw}
	}

	return Result{Outcome: OutcomeNone}
}

func (that Result) IsOver() bool {
	return that.Outcome != OutcomeNone
}

func (that Result) IsDraw() bool {
	return that.Outcome == OutcomeDraw
}

// Contains - reports whether cell is part of the winning line.
func (that Result) Contains(cell int) bool {
	if that.Line == nil {
		return false
	}

	for _, idx := range that.Line {
		if idx == cell {
			return true
		}
	}

	return false
}

func (that Board) Full() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// diff - returns the single cell that is empty in that and marked in next.
func (that Board) diff(next Board) (int, bool) {
	for i := range that {
		if that[i] == EmptyCell && next[i] != EmptyCell {
			return i, true
		}
	}

	return 0, false
}

func validCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

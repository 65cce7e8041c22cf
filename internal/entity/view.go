package entity

import (
	"fmt"
	"slices"
)

const (
	labelGameStart = "Go to game start"
	labelGoToMove  = "Go to move #%d"
	labelCurrent   = "You are at move #%d"
)

type CellView struct {
	Index       int  `json:"index"`
	Mark        Mark `json:"mark"`
	Highlighted bool `json:"highlighted,omitempty"`
}

// MoveEntry - one row of the move list. The Current entry is not a jump target.
type MoveEntry struct {
	Move     int    `json:"move"`
	Label    string `json:"label"`
	Current  bool   `json:"current,omitempty"`
	Location string `json:"location,omitempty"`
}

// View - everything a render surface needs, derived from a Game.
type View struct {
	GameID     string              `json:"game_id,omitempty"`
	Cells      [BoardSize]CellView `json:"cells"`
	Status     string              `json:"status"`
	Result     Result              `json:"result"`
	NextPlayer Mark                `json:"next_player,omitempty"`
	Moves      []MoveEntry         `json:"moves"`
	Ascending  bool                `json:"ascending"`
}

// Render - recomputes the view from state. Call it after every mutation.
func Render(game *Game) View {
	board := game.CurrentBoard()
	result := Evaluate(board)

	view := View{
		GameID:    game.ID,
		Status:    game.Status(),
		Result:    result,
		Moves:     make([]MoveEntry, 0, len(game.History)),
		Ascending: game.Ascending,
	}

	if !result.IsOver() {
		view.NextPlayer = game.NextMark()
	}

	for i, mark := range board {
		view.Cells[i] = CellView{
			Index:       i,
			Mark:        mark,
			Highlighted: result.Contains(i),
		}
	}

	for move := range game.History {
		view.Moves = append(view.Moves, moveEntry(game, move))
	}

	if !game.Ascending {
		slices.Reverse(view.Moves)
	}

	return view
}

func moveEntry(game *Game, move int) MoveEntry {
	entry := MoveEntry{Move: move}

	switch {
	case move == game.CurrentMove:
		entry.Label = fmt.Sprintf(labelCurrent, move)
		entry.Current = true
	case move == 0:
		entry.Label = labelGameStart
	default:
		entry.Label = fmt.Sprintf(labelGoToMove, move)
	}

	if row, col, ok := game.MoveLocation(move); ok {
		entry.Location = fmt.Sprintf("(%d, %d)", row, col)
	}

	return entry
}

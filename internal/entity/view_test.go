package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(moves []MoveEntry) []string {
	out := make([]string, 0, len(moves))
	for _, move := range moves {
		out = append(out, move.Label)
	}
	return out
}

func TestRender(t *testing.T) {
	t.Run("New game", func(t *testing.T) {
		// When: rendering a fresh game
		view := Render(NewGame("abc"))

		// Then: one current entry, no highlight, X to move
		assert.Equal(t, "abc", view.GameID)
		assert.Equal(t, "Next player: X", view.Status)
		assert.Equal(t, PlayerX, view.NextPlayer)
		require.Len(t, view.Moves, 1)
		assert.Equal(t, MoveEntry{Move: 0, Label: "You are at move #0", Current: true}, view.Moves[0])
		for i, cell := range view.Cells {
			assert.Equal(t, CellView{Index: i}, cell)
		}
	})

	t.Run("Move labels", func(t *testing.T) {
		// Given: a three-move game viewed at move 1
		game := NewGame("abc")
		playAll(t, game, 0, 4, 8)
		require.NoError(t, game.JumpTo(1))

		// When: rendering
		view := Render(game)

		// Then: labels follow the history with the current move marked
		assert.Equal(t, []string{
			"Go to game start",
			"You are at move #1",
			"Go to move #2",
			"Go to move #3",
		}, labels(view.Moves))
		assert.True(t, view.Moves[1].Current)
		assert.False(t, view.Moves[2].Current)
		assert.Equal(t, "(1, 1)", view.Moves[1].Location)
		assert.Equal(t, "(2, 2)", view.Moves[2].Location)
		assert.Equal(t, "(3, 3)", view.Moves[3].Location)
		assert.Empty(t, view.Moves[0].Location)

		// And: the board shown is the one at move 1
		assert.Equal(t, PlayerX, view.Cells[0].Mark)
		assert.Equal(t, EmptyCell, view.Cells[4].Mark)
	})

	t.Run("Descending order", func(t *testing.T) {
		// Given: a two-move game with descending order
		game := NewGame("abc")
		playAll(t, game, 0, 4)
		game.ToggleOrder()

		// When: rendering
		view := Render(game)

		// Then: the list is reversed
		assert.False(t, view.Ascending)
		assert.Equal(t, []string{
			"You are at move #2",
			"Go to move #1",
			"Go to game start",
		}, labels(view.Moves))
	})

	t.Run("Winning line is highlighted", func(t *testing.T) {
		// Given: X wins down the middle column
		game := NewGame("abc")
		playAll(t, game, 1, 0, 4, 2, 7)

		// When: rendering
		view := Render(game)

		// Then: exactly the line cells are highlighted and nobody is next
		assert.Equal(t, "Winner: X", view.Status)
		assert.Empty(t, view.NextPlayer)
		for i, cell := range view.Cells {
			assert.Equal(t, i == 1 || i == 4 || i == 7, cell.Highlighted, "cell %d", i)
		}
	})

	t.Run("Draw", func(t *testing.T) {
		game := NewGame("abc")
		playAll(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		view := Render(game)

		assert.Equal(t, "It's a Draw!", view.Status)
		assert.Equal(t, OutcomeDraw, view.Result.Outcome)
		for _, cell := range view.Cells {
			assert.False(t, cell.Highlighted)
		}
	})
}

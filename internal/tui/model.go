package tui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type focus int

const (
	focusBoard focus = iota
	focusMoves
)

const boardSide = 3

// Model - Bubble Tea model for a hot-seat game. It is the only owner of its Game.
type Model struct {
	logger *slog.Logger
	game   *entity.Game
	view   entity.View

	keys   keyMap
	help   help.Model
	styles Styles

	focus        focus
	cursor       int
	selectedMove int
	quitting     bool
}

func New(logger *slog.Logger, theme Theme) *Model {
	model := &Model{
		logger: logger.With("component", "tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(theme),
	}
	model.newGame()

	return model
}

func (that *Model) Init() tea.Cmd {
	return nil
}

// Game - the game currently shown.
func (that *Model) Game() *entity.Game {
	return that.game
}

func (that *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		that.help.Width = msg.Width

	case tea.KeyMsg:
		return that, that.handleKey(msg)
	}

	return that, nil
}

func (that *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, that.keys.Quit):
		that.quitting = true
		return tea.Quit
	case key.Matches(msg, that.keys.Help):
		that.help.ShowAll = !that.help.ShowAll
	case key.Matches(msg, that.keys.New):
		that.newGame()
	case key.Matches(msg, that.keys.Order):
		that.game.ToggleOrder()
		that.refresh()
	case key.Matches(msg, that.keys.Focus):
		that.toggleFocus()
	case key.Matches(msg, that.keys.Cell):
		cell := int(msg.String()[0] - '1')
		that.cursor = cell
		that.play(cell)
	case that.focus == focusMoves:
		that.handleMovesKey(msg)
	default:
		that.handleBoardKey(msg)
	}

	return nil
}

func (that *Model) handleBoardKey(msg tea.KeyMsg) {
	row, col := that.cursor/boardSide, that.cursor%boardSide

	switch {
	case key.Matches(msg, that.keys.Up):
		row = max(row-1, 0)
	case key.Matches(msg, that.keys.Down):
		row = min(row+1, boardSide-1)
	case key.Matches(msg, that.keys.Left):
		col = max(col-1, 0)
	case key.Matches(msg, that.keys.Right):
		col = min(col+1, boardSide-1)
	case key.Matches(msg, that.keys.Select):
		that.play(that.cursor)
		return
	}

	that.cursor = row*boardSide + col
}

func (that *Model) handleMovesKey(msg tea.KeyMsg) {
	pos := that.selectedIndex()

	switch {
	case key.Matches(msg, that.keys.Up):
		pos = max(pos-1, 0)
	case key.Matches(msg, that.keys.Down):
		pos = min(pos+1, len(that.view.Moves)-1)
	case key.Matches(msg, that.keys.Select):
		that.jumpTo(that.selectedMove)
		return
	}

	that.selectedMove = that.view.Moves[pos].Move
}

func (that *Model) play(cell int) {
	ok, err := that.game.Play(cell)
	if err != nil {
		that.logger.Warn("move rejected", "cell", cell, "error", err)
		return
	}

	if !ok {
		that.logger.Debug("move ignored", "cell", cell)
		return
	}

	that.logger.Debug("move played", "cell", cell, "move", that.game.CurrentMove)
	that.selectedMove = that.game.CurrentMove
	that.refresh()
}

func (that *Model) jumpTo(move int) {
	if err := that.game.JumpTo(move); err != nil {
		that.logger.Warn("jump rejected", "move", move, "error", err)
		return
	}

	that.logger.Debug("jumped", "move", move)
	that.refresh()
}

func (that *Model) newGame() {
	that.game = entity.NewGame(uuid.NewString())
	that.cursor = 0
	that.focus = focusBoard
	that.selectedMove = 0
	that.refresh()

	that.logger.Debug("new game", "game_id", that.game.ID)
}

func (that *Model) toggleFocus() {
	if that.focus == focusBoard {
		that.focus = focusMoves
		that.selectedMove = that.game.CurrentMove
		return
	}

	that.focus = focusBoard
}

func (that *Model) refresh() {
	that.view = entity.Render(that.game)
}

func (that *Model) selectedIndex() int {
	pos := slices.IndexFunc(that.view.Moves, func(entry entity.MoveEntry) bool {
		return entry.Move == that.selectedMove
	})

	return max(pos, 0)
}

func (that *Model) View() string {
	if that.quitting {
		return ""
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		that.styles.Pane.Render(that.renderBoard()),
		that.styles.Pane.Render(that.renderMoves()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		that.styles.Title.Render("Tic-Tac-Toe"),
		"",
		body,
		"",
		that.help.View(that.keys),
	) + "\n"
}

func (that *Model) renderBoard() string {
	var b strings.Builder

	separator := that.styles.Grid.Render("│")
	rule := that.styles.Grid.Render(strings.Repeat("───┼", boardSide-1) + "───")

	for row := range boardSide {
		if row > 0 {
			b.WriteString("\n" + rule + "\n")
		}

		cells := make([]string, 0, boardSide)
		for col := range boardSide {
			cells = append(cells, that.renderCell(that.view.Cells[row*boardSide+col]))
		}

		b.WriteString(strings.Join(cells, separator))
	}

	b.WriteString("\n\n")
	b.WriteString(that.styles.Status.Render(that.view.Status))

	return b.String()
}

func (that *Model) renderCell(cell entity.CellView) string {
	text := " · "
	style := that.styles.Empty

	switch cell.Mark {
	case entity.PlayerX:
		text, style = " X ", that.styles.MarkX
	case entity.PlayerO:
		text, style = " O ", that.styles.MarkO
	}

	switch {
	case that.focus == focusBoard && cell.Index == that.cursor:
		style = that.styles.Cursor
	case cell.Highlighted:
		style = that.styles.Highlight
	}

	return style.Render(text)
}

func (that *Model) renderMoves() string {
	lines := make([]string, 0, len(that.view.Moves)+1)

	order := "ascending"
	if !that.view.Ascending {
		order = "descending"
	}
	lines = append(lines, that.styles.Grid.Render(fmt.Sprintf("Moves (%s)", order)))

	for _, entry := range that.view.Moves {
		text := entry.Label
		if entry.Location != "" {
			text += " " + entry.Location
		}

		prefix := "  "
		style := that.styles.Move

		switch {
		case that.focus == focusMoves && entry.Move == that.selectedMove:
			prefix, style = "> ", that.styles.Selected
		case entry.Current:
			style = that.styles.Current
		}

		lines = append(lines, prefix+style.Render(text))
	}

	return strings.Join(lines, "\n")
}

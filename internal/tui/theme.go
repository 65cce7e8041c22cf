package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Theme - colours of the board, read from an HCL file such as:
//
//	highlight = "#FFD700"
//	mark_x    = "#FF6B6B"
//	mark_o    = "#4ECDC4"
//	cursor    = "#7D56F4"
//	status    = "#96CEB4"
type Theme struct {
	Highlight string `hcl:"highlight,optional"`
	MarkX     string `hcl:"mark_x,optional"`
	MarkO     string `hcl:"mark_o,optional"`
	Cursor    string `hcl:"cursor,optional"`
	Status    string `hcl:"status,optional"`
}

func DefaultTheme() Theme {
	return Theme{
		Highlight: "#FFD700",
		MarkX:     "#FF6B6B",
		MarkO:     "#4ECDC4",
		Cursor:    "#7D56F4",
		Status:    "#96CEB4",
	}
}

// LoadTheme - reads filename; a missing file or an empty path yields the default theme.
// Attributes left out of the file keep their default colour.
func LoadTheme(filename string) (Theme, error) {
	if filename == "" {
		return DefaultTheme(), nil
	}

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultTheme(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Theme{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var theme Theme
	diags = gohcl.DecodeBody(file.Body, nil, &theme)
	if diags.HasErrors() {
		return Theme{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultTheme()

	if theme.Highlight == "" {
		theme.Highlight = defaults.Highlight
	}
	if theme.MarkX == "" {
		theme.MarkX = defaults.MarkX
	}
	if theme.MarkO == "" {
		theme.MarkO = defaults.MarkO
	}
	if theme.Cursor == "" {
		theme.Cursor = defaults.Cursor
	}
	if theme.Status == "" {
		theme.Status = defaults.Status
	}

	return theme, nil
}

// Styles - lipgloss styles derived from a Theme.
type Styles struct {
	Title     lipgloss.Style
	MarkX     lipgloss.Style
	MarkO     lipgloss.Style
	Empty     lipgloss.Style
	Highlight lipgloss.Style
	Cursor    lipgloss.Style
	Status    lipgloss.Style
	Grid      lipgloss.Style
	Move      lipgloss.Style
	Current   lipgloss.Style
	Selected  lipgloss.Style
	Pane      lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(theme.Cursor)).
			Padding(0, 1).
			Bold(true),
		MarkX: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.MarkX)).
			Bold(true),
		MarkO: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.MarkO)).
			Bold(true),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Highlight: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Highlight)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Cursor)).
			Foreground(lipgloss.Color("#FAFAFA")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Status)).
			Bold(true),
		Grid: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Move: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Current: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Status)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Cursor)).
			Bold(true),
		Pane: lipgloss.NewStyle().
			Padding(0, 2),
	}
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bombsnake/internal/core"
)

// Theme contains the visual styles of the terminal front end.
type Theme struct {
	// Cells maps screen cell colors to styles
	Cells map[core.Color]lipgloss.Style

	// Footer styles
	Status lipgloss.Style
	Error  lipgloss.Style
}

// DefaultTheme returns 256-color styles close to the canvas palette.
func DefaultTheme() Theme {
	return Theme{
		Cells: map[core.Color]lipgloss.Style{
			core.ColorDefault:      lipgloss.NewStyle(),
			core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("36")), // #00b894 body
			core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
			core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
			core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true), // #d63031 bomb
			core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("221")), // #fdcb6e safe
			core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("45")),  // #00d2ff head
			core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			core.ColorDim:          lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		},
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
}

// Style returns the style for c, falling back to the default style.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if style, ok := t.Cells[c]; ok {
		return style
	}
	return t.Cells[core.ColorDefault]
}

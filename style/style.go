// Package style composes lipgloss styles into plain string renderers.
package style

import (
	"github.com/calcoloergosum/vocagen/color"
	"github.com/charmbracelet/lipgloss"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg renders with the foreground c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders s as a padded banner.
var Title = func(s string) string {
	return New().Foreground(color.New("230")).Background(color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle is Title in error colors.
var ErrorTitle = func(s string) string {
	return New().Foreground(color.New("230")).Background(color.Red).Padding(0, 1).Render(s)
}

// Package color names the terminal colors used in command output.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps a color value: an ANSI index or a hex code.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors follow the user's terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange marks keys in help text.
var Orange = New("#ffb703")

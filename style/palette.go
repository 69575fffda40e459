package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the interfaces draw with.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Subtext = lipgloss.Color("#a6adc8")

	Mauve  = lipgloss.Color("#cba6f7")
	Red    = lipgloss.Color("#f38ba8")
	Peach  = lipgloss.Color("#fab387")
	Yellow = lipgloss.Color("#f9e2af")
	Green  = lipgloss.Color("#a6e3a1")
)

// Roles.
var (
	AccentColor = Mauve
	ErrorColor  = Red
	HiRed       = Red

	// NativeColor draws the sentence in the learner's language, TargetColor the one being learned.
	NativeColor = Subtext
	TargetColor = Mauve
	WordColor   = Peach
)

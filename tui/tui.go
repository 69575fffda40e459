// Package tui provides the full-screen listening trainer.
package tui

import (
	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/player"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Continue starts from the list of saved streams.
	Continue bool

	// Source serves the items, normally a *stream.Client.
	Source Source

	// Feed configures the trainer. A zero pair shows the pair list first.
	Feed feed.Options

	// NewPlayer creates the audio backend each time a trainer starts.
	NewPlayer func() (player.Player, error)
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer bubble.stopTrainer()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	if err != nil {
		log.Errorf("tui: %s", err)
	}
	return err
}

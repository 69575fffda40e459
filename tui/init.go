package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init decides the first screen: saved streams, the pair list or the trainer itself.
func (b *statefulBubble) Init() tea.Cmd {
	switch {
	case b.options.Continue:
		b.setState(loadingState)
		b.progressStatus = "Loading history"
		return tea.Batch(b.startLoading(), b.loadHistory())
	case b.options.Feed.Pair.IsZero():
		b.setState(loadingState)
		b.progressStatus = "Fetching language pairs"
		return tea.Batch(b.startLoading(), b.loadPairs())
	default:
		return b.startTrainer(b.options.Feed)
	}
}

// Package mini implements a line-oriented trainer for terminals where a full-screen interface does not fit.
package mini

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/util"
	"github.com/samber/lo"
)

// Source is what the trainer needs from the content server.
type Source interface {
	feed.Source
	PairsOrKnown(ctx context.Context) []item.Pair
}

type Options struct {
	Continue bool
	Source   Source

	// Feed configures the trainer. A zero pair asks for one first.
	Feed      feed.Options
	NewPlayer func() (player.Player, error)

	// Limit stops the trainer after this many finished items. Zero means never.
	Limit int

	In  io.Reader
	Out io.Writer
}

type mini struct {
	state         state
	statesHistory util.Stack[state]

	options *Options
	opts    feed.Options
	out     *printer
}

func newMini(options *Options) *mini {
	if options.In == nil {
		options.In = os.Stdin
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}

	return &mini{
		statesHistory: util.Stack[state]{},
		options:       options,
		opts:          options.Feed,
		out:           newPrinter(options.Out),
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{trainState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func Run(options *Options) error {
	m := newMini(options)

	switch {
	case options.Continue:
		m.state = historySelectState
	case options.Feed.Pair.IsZero():
		m.state = pairSelectState
	default:
		m.state = trainState
	}

	for m.state != quitState {
		if err := m.handleState(); err != nil {
			if errors.Is(err, errInterrupted) {
				return nil
			}
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case historySelectState:
		return m.handleHistorySelectState()
	case pairSelectState:
		return m.handlePairSelectState()
	case trainState:
		return m.handleTrainState()
	}

	return nil
}

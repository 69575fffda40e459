package tui

import (
	"context"
	"errors"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/history"
	"github.com/calcoloergosum/vocagen/internal/ui"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/open"
	"github.com/calcoloergosum/vocagen/stream"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

type (
	pairsLoadedMsg   []item.Pair
	historyLoadedMsg []*history.Record
)

var errNoImage = errors.New("this item has no image")

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// notices are plain strings
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.stopTrainer()
			return b, tea.Quit
		}
	case spinner.TickMsg:
		if b.loading || b.feed != nil {
			var tick tea.Cmd
			b.spinnerC, tick = b.spinnerC.Update(msg)
			return b, tea.Batch(cmd, tick)
		}
		return b, cmd
	case pairsLoadedMsg:
		b.setPairs(msg)
		if b.state == loadingState {
			b.stopLoading()
			b.newState(pairsState)
		}
		return b, cmd
	case historyLoadedMsg:
		if len(msg) == 0 && b.state == loadingState {
			b.progressStatus = "Fetching language pairs"
			return b, tea.Batch(cmd, ui.Notify("Nothing to continue yet"), b.loadPairs())
		}
		b.setHistory(msg)
		if b.state == loadingState {
			b.stopLoading()
			b.newState(historyState)
		}
		return b, cmd
	}

	// the feed keeps playing while a dialog is open
	if b.feed != nil {
		cmd = tea.Batch(cmd, b.feed.Update(msg))
	}

	var stateCmd tea.Cmd
	switch b.state {
	case loadingState:
		stateCmd = b.updateLoading(msg)
	case pairsState:
		stateCmd = b.updatePairs(msg)
	case historyState:
		stateCmd = b.updateHistory(msg)
	case trainerState:
		stateCmd = b.updateTrainer(msg)
	case reportState:
		stateCmd = b.updateReport(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.back) {
		if b.statesHistory.Len() == 0 {
			return tea.Quit
		}
		b.stopLoading()
		b.previousState()
	}
	return nil
}

func (b *statefulBubble) updatePairs(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && b.pairsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			selected, ok := b.pairsC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}

			opts := b.options.Feed
			opts.Pair = selected.internal.(item.Pair)
			opts.Start = cursor.Token{}
			return b.startTrainer(opts)
		case bubblesKey.Matches(msg, b.keymap.back) && b.pairsC.FilterState() == list.Unfiltered:
			b.previousState()
			return nil
		}
	}

	var cmd tea.Cmd
	b.pairsC, cmd = b.pairsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		selected, _ := b.historyC.SelectedItem().(*listItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if selected == nil {
				return nil
			}

			record := selected.internal.(*history.Record)
			opts := b.options.Feed
			opts.Pair = record.Pair
			opts.Mode = record.Mode
			opts.Order = record.Order
			opts.Start = record.Token
			return b.startTrainer(opts)
		case bubblesKey.Matches(msg, b.keymap.remove):
			if selected == nil {
				return nil
			}

			if err := history.Remove(selected.internal.(*history.Record)); err != nil {
				return ui.Notify("Could not remove: %s", err)
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return nil
		case bubblesKey.Matches(msg, b.keymap.back) && b.historyC.FilterState() == list.Unfiltered:
			if b.statesHistory.Len() > 0 {
				b.previousState()
				return nil
			}

			b.setState(loadingState)
			b.progressStatus = "Fetching language pairs"
			return tea.Batch(b.startLoading(), b.loadPairs())
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateTrainer(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || b.feed == nil {
		return nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		b.stopTrainer()
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.stopTrainer()
		if b.statesHistory.Len() == 0 {
			return tea.Quit
		}
		b.previousState()
		if b.state == historyState {
			return b.loadHistory()
		}
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.toggle):
		return b.feed.Toggle()
	case bubblesKey.Matches(keyMsg, b.keymap.next):
		return b.feed.Advance()
	case bubblesKey.Matches(keyMsg, b.keymap.prev):
		return b.feed.Retreat()
	case bubblesKey.Matches(keyMsg, b.keymap.replay):
		return b.feed.Replay()
	case bubblesKey.Matches(keyMsg, b.keymap.openImage):
		return b.openImage()
	case bubblesKey.Matches(keyMsg, b.keymap.report):
		if b.feed.Current().IsAbsent() {
			return nil
		}
		b.reportC.ResetSelected()
		b.newState(reportState)
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

func (b *statefulBubble) updateReport(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			selected, ok := b.reportC.SelectedItem().(*listItem)
			b.previousState()
			if !ok || b.feed == nil {
				return nil
			}
			return b.feed.Report(selected.internal.(stream.Reason))
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		}
	}

	var cmd tea.Cmd
	b.reportC, cmd = b.reportC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return tea.Quit
			}
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}
	return nil
}

func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
}

func (b *statefulBubble) loadPairs() tea.Cmd {
	source := b.options.Source
	return func() tea.Msg {
		return pairsLoadedMsg(source.PairsOrKnown(context.Background()))
	}
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := history.List()
		if err != nil {
			return err
		}
		return historyLoadedMsg(records)
	}
}

func (b *statefulBubble) setPairs(pairs []item.Pair) {
	b.pairsC.SetItems(lo.Map(pairs, func(p item.Pair, _ int) list.Item {
		return &listItem{internal: p}
	}))
}

func (b *statefulBubble) setHistory(records []*history.Record) {
	b.historyC.SetItems(lo.Map(records, func(r *history.Record, _ int) list.Item {
		return &listItem{internal: r}
	}))
}

func (b *statefulBubble) setReasons() {
	b.reportC.SetItems(lo.Map(stream.Reasons, func(r stream.Reason, _ int) list.Item {
		return &listItem{internal: r}
	}))
}

// startTrainer replaces the running feed, if any, with a new one for opts.
func (b *statefulBubble) startTrainer(opts feed.Options) tea.Cmd {
	b.stopTrainer()

	p, err := b.options.NewPlayer()
	if err != nil {
		b.raiseError(err)
		return nil
	}

	if opts.Mode == "" {
		opts.Mode = stream.ModeSentence
	}
	if opts.Order == "" {
		opts.Order = stream.OrderRandom
	}
	if opts.Journal == nil {
		opts.Journal = history.Journal{Mode: opts.Mode, Order: opts.Order}
	}

	log.Infof("training %s (%s, %s) from %q", opts.Pair, opts.Mode, opts.Order, opts.Start)

	b.feed = feed.New(b.options.Source, p, opts)
	b.setReasons()
	b.stopLoading()
	b.newState(trainerState)

	return tea.Batch(b.feed.Init(), b.spinnerC.Tick)
}

func (b *statefulBubble) stopTrainer() {
	if b.feed == nil {
		return
	}

	if err := b.feed.Close(); err != nil {
		log.Warnf("closing player: %s", err)
	}
	b.feed = nil
}

func (b *statefulBubble) openImage() tea.Cmd {
	current, ok := b.feed.Current().Get()
	if !ok {
		return nil
	}

	image, ok := current.Image().Get()
	if !ok {
		return ui.Notify("%s", errNoImage)
	}

	return func() tea.Msg {
		if err := open.Start(image); err != nil {
			log.Errorf("open %s: %s", image, err)
			return "Could not open the image: " + err.Error()
		}
		return nil
	}
}


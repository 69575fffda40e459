package mini

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/history"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/open"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type state int

const (
	pairSelectState state = iota + 1
	historySelectState
	trainState
	quitState
)

type pairOption item.Pair

func (p pairOption) String() string {
	return fmt.Sprintf("%s %s", item.Pair(p).Describe(), style.Faint(item.Pair(p).String()))
}

type reasonOption stream.Reason

func (r reasonOption) String() string {
	return stream.Reason(r).Describe()
}

func (m *mini) handlePairSelectState() error {
	erase := util.PrintErasable(fmt.Sprintf("%s Fetching language pairs...", icon.Get(icon.Progress)))
	pairs := m.options.Source.PairsOrKnown(context.Background())
	erase()

	title("Select Language Pair")
	b, p, err := menu(lo.Map(pairs, func(p item.Pair, _ int) pairOption { return pairOption(p) }), quit)
	if err != nil {
		return err
	}

	if quit == b {
		m.newState(quitState)
		return nil
	}

	m.opts = m.options.Feed
	m.opts.Pair = item.Pair(p)
	m.newState(trainState)
	return nil
}

func (m *mini) handleHistorySelectState() error {
	records, err := history.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fail("Nothing to continue yet")
		m.setState(pairSelectState)
		return nil
	}

	title("Continue >>")
	b, record, err := menu(records, quit)
	if err != nil {
		return err
	}

	if quit == b {
		m.newState(quitState)
		return nil
	}

	m.opts = m.options.Feed
	m.opts.Pair = record.Pair
	m.opts.Mode = record.Mode
	m.opts.Order = record.Order
	m.opts.Start = record.Token
	m.newState(trainState)
	return nil
}

func (m *mini) handleTrainState() error {
	if err := m.train(); err != nil {
		return err
	}

	m.setState(quitState)
	return nil
}

// train runs the feed until the user quits, the input ends or the item limit is reached.
func (m *mini) train() error {
	p, err := m.options.NewPlayer()
	if err != nil {
		return err
	}

	opts := m.opts
	if opts.Mode == "" {
		opts.Mode = stream.ModeSentence
	}
	if opts.Order == "" {
		opts.Order = stream.OrderRandom
	}

	c := &counter{Journal: opts.Journal}
	if c.Journal == nil {
		c.Journal = history.Journal{Mode: opts.Mode, Order: opts.Order}
	}
	opts.Journal = c

	f := feed.New(m.options.Source, p, opts)
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("closing player: %s", err)
		}
	}()

	d := &driver{feed: f, out: m.out, counter: c, limit: m.options.Limit}
	program := tea.NewProgram(
		d,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
	}()

	m.out.println(style.Title(opts.Pair.Describe()), style.Faint("enter pauses, ? shows all commands"))

	reader := newLineReader(m.options.In)
	reader.request()

	for {
		select {
		case err := <-done:
			return err
		case line, ok := <-reader.lines:
			if !ok {
				program.Quit()
				return <-done
			}

			m.handleLine(program, line)
			reader.request()
		}
	}
}

func (m *mini) handleLine(program *tea.Program, line string) {
	cmd, ok := parseCommand(strings.ToLower(line))

	switch {
	case !ok:
		m.out.println(style.Faint(fmt.Sprintf("unknown command %q, type ? for help", line)))
	case cmd == commandHelp:
		m.out.println(helpText())
	case cmd == commandOpen:
		current, ok := m.current(program).Get()
		if !ok {
			return
		}
		image, ok := current.Image().Get()
		if !ok {
			m.out.println(style.Faint("this item has no image"))
			return
		}
		if err := open.Start(image); err != nil {
			m.out.println(icon.Get(icon.Fail), err)
		}
	case cmd == commandReport:
		if m.current(program).IsAbsent() {
			return
		}

		m.out.hold()
		b, reason, err := menu(lo.Map(stream.Reasons, func(r stream.Reason, _ int) reasonOption { return reasonOption(r) }), back)
		m.out.release()

		if err != nil || back == b {
			return
		}
		program.Send(reportMsg(reason))
	default:
		program.Send(commandMsg(cmd))
	}
}

// current asks the event loop for the item being played.
func (m *mini) current(program *tea.Program) mo.Option[*item.Item] {
	reply := make(currentMsg, 1)
	program.Send(reply)

	select {
	case current := <-reply:
		return current
	case <-time.After(time.Second):
		return mo.None[*item.Item]()
	}
}

// lineReader reads one line per request, leaving the input alone in between.
type lineReader struct {
	want  chan struct{}
	lines chan string
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		want:  make(chan struct{}, 1),
		lines: make(chan string, 1),
	}

	go func() {
		defer close(lr.lines)

		reader := bufio.NewReader(r)
		for range lr.want {
			line, err := reader.ReadString('\n')
			if err == nil || strings.TrimSpace(line) != "" {
				lr.lines <- strings.TrimSpace(line)
			}
			if err != nil {
				return
			}
		}
	}()

	return lr
}

func (lr *lineReader) request() {
	select {
	case lr.want <- struct{}{}:
	default:
	}
}

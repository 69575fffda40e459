package mini

import (
	"fmt"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/icon"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/calcoloergosum/vocagen/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

type command int

const (
	commandNone command = iota
	commandToggle
	commandNext
	commandPrev
	commandReplay
	commandOpen
	commandReport
	commandHelp
	commandQuit
)

// parseCommand reads one input line.
func parseCommand(line string) (command, bool) {
	switch line {
	case "":
		return commandToggle, true
	case "n", "next":
		return commandNext, true
	case "p", "prev", "previous":
		return commandPrev, true
	case "r", "replay":
		return commandReplay, true
	case "o", "open":
		return commandOpen, true
	case "x", "report":
		return commandReport, true
	case "?", "h", "help":
		return commandHelp, true
	case "q", "quit", "exit":
		return commandQuit, true
	default:
		return commandNone, false
	}
}

type (
	commandMsg command
	reportMsg  stream.Reason

	// currentMsg asks the event loop for the current item.
	currentMsg chan mo.Option[*item.Item]
)

// counter forwards to a journal and counts finished items.
type counter struct {
	feed.Journal
	finished int
}

func (c *counter) Finished(pair item.Pair, i *item.Item) {
	c.finished++
	if c.Journal != nil {
		c.Journal.Finished(pair, i)
	}
}

func (c *counter) Visited(pair item.Pair, mode stream.Mode, order stream.Order, token cursor.Token) {
	if c.Journal != nil {
		c.Journal.Visited(pair, mode, order, token)
	}
}

// driver runs a feed inside a headless Bubble Tea program and prints what it plays.
type driver struct {
	feed    *feed.Feed
	out     *printer
	counter *counter
	limit   int

	shown   string
	stalled bool
}

func (d *driver) Init() tea.Cmd {
	return d.feed.Init()
}

func (d *driver) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case string:
		d.out.println(style.Faint(msg))
	case commandMsg:
		switch command(msg) {
		case commandToggle:
			cmd = d.feed.Toggle()
		case commandNext:
			cmd = d.feed.Advance()
		case commandPrev:
			cmd = d.feed.Retreat()
		case commandReplay:
			cmd = d.feed.Replay()
		case commandQuit:
			return d, tea.Quit
		}
	case reportMsg:
		cmd = d.feed.Report(stream.Reason(msg))
	case currentMsg:
		msg <- d.feed.Current()
	default:
		cmd = d.feed.Update(msg)
	}

	d.show()

	if d.limit > 0 && d.counter.finished >= d.limit {
		d.out.println(icon.Get(icon.Success) + " Listened to " + util.Quantify(d.counter.finished, "item", "items"))
		return d, tea.Quit
	}

	return d, cmd
}

func (d *driver) View() string {
	return ""
}

// show prints the current item once it changes and announces stalls.
func (d *driver) show() {
	switch status := d.feed.Status(); {
	case status == feed.Stalled && !d.stalled:
		d.stalled = true
		d.out.println(icon.Get(icon.Stalled) + style.Faint(" stalled, press enter to retry"))
	case status != feed.Stalled:
		d.stalled = false
	}

	current, ok := d.feed.Current().Get()
	if !ok {
		return
	}

	position, size := d.feed.Position()
	key := fmt.Sprintf("%s/%s/%d", d.feed.Token(), current.Key(), position)
	if key == d.shown {
		return
	}
	d.shown = key

	if word := d.feed.Word(); word != "" {
		d.out.println(icon.Get(icon.Word), style.Bold(word), style.Faint(fmt.Sprintf("%d/%d", position+1, size)))
	}
	d.out.println("  " + style.Faint(current.Sentence1))
	d.out.println("  " + style.Bold(current.Sentence2))
}

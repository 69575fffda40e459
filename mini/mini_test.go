package mini

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/feed"
	"github.com/calcoloergosum/vocagen/internal/streamtest"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/stream"
	. "github.com/smartystreets/goconvey/convey"
)

// echo plays every clip to its end the moment it is started.
type echo struct {
	mu     sync.Mutex
	events chan player.Event
	tag    uint64
	closed bool
}

func newEcho() *echo {
	return &echo{events: make(chan player.Event, 64)}
}

func (e *echo) Load(_ string, tag uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tag = tag
	e.events <- player.Event{Kind: player.Loaded, Tag: tag}
	return nil
}

func (e *echo) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events <- player.Event{Kind: player.Ended, Tag: e.tag}
	return nil
}

func (e *echo) Pause() error                 { return nil }
func (e *echo) Resume() error                { return e.Play() }
func (e *echo) Events() <-chan player.Event { return e.events }

func (e *echo) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
	return nil
}

type nopJournal struct{}

func (nopJournal) Visited(item.Pair, stream.Mode, stream.Order, cursor.Token) {}
func (nopJournal) Finished(item.Pair, *item.Item)                            {}

func TestParseCommand(t *testing.T) {
	Convey("Input lines map to commands", t, func() {
		for line, want := range map[string]command{
			"":       commandToggle,
			"n":      commandNext,
			"prev":   commandPrev,
			"r":      commandReplay,
			"o":      commandOpen,
			"x":      commandReport,
			"?":      commandHelp,
			"q":      commandQuit,
			"report": commandReport,
		} {
			got, ok := parseCommand(line)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}

		_, ok := parseCommand("jump")
		So(ok, ShouldBeFalse)
	})
}

func TestPrinter(t *testing.T) {
	Convey("Held output is written on release", t, func() {
		var out bytes.Buffer
		p := newPrinter(&out)

		p.hold()
		p.println("late")
		So(out.String(), ShouldBeEmpty)

		p.release()
		So(out.String(), ShouldEqual, "late\n")

		p.println("now")
		So(out.String(), ShouldEqual, "late\nnow\n")
	})
}

func TestRun(t *testing.T) {
	content := streamtest.Default()
	server := streamtest.NewServer(content)
	defer server.Close()

	client, err := stream.New(server.Base(), stream.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}

	first := content.Sentence(streamtest.Next(content.Start))

	options := func(in io.Reader, out io.Writer, limit int) (*Options, *echo) {
		p := newEcho()
		return &Options{
			Source: client,
			Feed: feed.Options{
				Pair:    content.Pair,
				Pause:   time.Millisecond,
				Gap:     time.Millisecond,
				Journal: nopJournal{},
			},
			NewPlayer: func() (player.Player, error) { return p, nil },
			Limit:     limit,
			In:        in,
			Out:       out,
		}, p
	}

	Convey("Given an item limit of one", t, func() {
		in, w := io.Pipe()
		defer w.Close()

		var out bytes.Buffer
		opts, p := options(in, &out, 1)

		Convey("The trainer prints the item and stops after it", func() {
			So(Run(opts), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, first.Sentence2)
			So(out.String(), ShouldContainSubstring, "Listened to 1 item")
			So(p.closed, ShouldBeTrue)
		})
	})

	Convey("Given commands typed by the user", t, func() {
		var out bytes.Buffer
		opts, p := options(strings.NewReader("?\njump\nq\n"), &out, 0)

		Convey("Help and unknown commands are answered and q quits", func() {
			So(Run(opts), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "replay")
			So(out.String(), ShouldContainSubstring, `unknown command "jump"`)
			So(p.closed, ShouldBeTrue)
		})
	})
}

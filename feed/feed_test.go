package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/internal/streamtest"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/sequencer"
	"github.com/calcoloergosum/vocagen/stream"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	feed    *Feed
	source  *source
	player  *speaker
	journal *journal
	loop    *loop
}

func setup(auto bool, opts Options) fixture {
	content := streamtest.Default()

	fx := fixture{
		source:  &source{content: content},
		player:  newSpeaker(auto),
		journal: &journal{},
	}

	opts.Pair = content.Pair
	opts.Journal = fx.journal
	if opts.Pause == 0 {
		opts.Pause = time.Millisecond
	}
	if opts.Gap == 0 {
		opts.Gap = time.Millisecond
	}

	fx.feed = New(fx.source, fx.player, opts)
	fx.loop = newLoop(fx.feed)
	fx.loop.exec(fx.feed.Init())
	return fx
}

func (fx fixture) status(s Status) func() bool {
	return func() bool { return fx.feed.Status() == s }
}

func TestPlayback(t *testing.T) {
	content := streamtest.Default()
	first := content.Sentence(streamtest.Next(content.Start))
	second := content.Sentence(streamtest.Next(streamtest.Next(content.Start)))

	Convey("Given a feed over a player that finishes every clip at once", t, func() {
		fx := setup(true, Options{Mode: stream.ModeSentence})
		defer fx.feed.Close()

		Convey("Each item plays native once, then the targets round-robin, then the next item starts", func() {
			So(fx.loop.until(func() bool { return len(fx.player.loaded()) >= 5 }), ShouldBeTrue)

			loads := fx.player.loaded()
			So(loads[:5], ShouldResemble, []string{
				first.AudioURLs[0],
				first.AudioURLs[1],
				first.AudioURLs[2],
				first.AudioURLs[1],
				second.AudioURLs[0],
			})

			fx.journal.mu.Lock()
			So(fx.journal.finished, ShouldHaveLength, 1)
			So(fx.journal.finished[0].Sentence2, ShouldEqual, first.Sentence2)
			So(len(fx.journal.visited), ShouldBeGreaterThanOrEqualTo, 2)
			fx.journal.mu.Unlock()
		})
	})

	Convey("Given a feed that hides the native language", t, func() {
		fx := setup(true, Options{HideNative: true, Repeat: 2})
		defer fx.feed.Close()

		Convey("Only target clips are requested", func() {
			So(fx.loop.until(func() bool { return len(fx.player.loaded()) >= 3 }), ShouldBeTrue)
			So(fx.player.loaded()[:3], ShouldResemble, []string{
				first.AudioURLs[1],
				first.AudioURLs[2],
				second.AudioURLs[1],
			})
		})
	})
}

func TestNavigation(t *testing.T) {
	content := streamtest.Default()

	Convey("Given a word feed playing its first sentence", t, func() {
		fx := setup(false, Options{Mode: stream.ModeWord})
		defer fx.feed.Close()

		So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)
		So(fx.feed.Word(), ShouldEqual, "word-"+streamtest.Hex(streamtest.Next(content.Start)))
		So(fx.source.requests(), ShouldHaveLength, 1)

		Convey("Moving inside the word does not fetch", func() {
			fx.loop.exec(fx.feed.Advance())
			So(fx.loop.until(func() bool { return len(fx.player.loaded()) == 2 }), ShouldBeTrue)

			position, size := fx.feed.Position()
			So(position, ShouldEqual, 1)
			So(size, ShouldEqual, content.WordSize)
			So(fx.source.requests(), ShouldHaveLength, 1)
		})

		Convey("Retreating from the first sentence lands on the last sentence of the previous word", func() {
			fx.loop.exec(fx.feed.Retreat())
			So(fx.loop.until(func() bool { return len(fx.journal.visited) == 2 }), ShouldBeTrue)

			requests := fx.source.requests()
			So(requests[1].Direction, ShouldEqual, cursor.Backward)
			So(requests[1].Token.String(), ShouldEqual, streamtest.Hex(streamtest.Next(content.Start)))

			position, size := fx.feed.Position()
			So(position, ShouldEqual, size-1)
			So(fx.feed.Token().String(), ShouldEqual, streamtest.Hex(content.Start))
		})

		Convey("Of two skips issued while fetching, only the latest is applied", func() {
			for i := 1; i < content.WordSize; i++ {
				fx.loop.exec(fx.feed.Advance())
			}
			So(fx.loop.until(func() bool { return len(fx.player.loaded()) == content.WordSize }), ShouldBeTrue)

			gate := make(chan struct{})
			fx.source.mu.Lock()
			fx.source.gate = gate
			fx.source.mu.Unlock()

			fx.loop.exec(fx.feed.Advance())
			fx.loop.exec(fx.feed.Advance())
			So(fx.feed.Status(), ShouldEqual, Fetching)

			close(gate)
			So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)
			fx.loop.settle(20 * time.Millisecond)

			So(fx.source.requests(), ShouldHaveLength, 3)
			So(fx.journal.visited, ShouldHaveLength, 2)
			position, _ := fx.feed.Position()
			So(position, ShouldEqual, 0)
		})

		Convey("A late event from a replaced clip changes nothing", func() {
			old := fx.feed.tag
			fx.loop.exec(fx.feed.Advance())
			So(fx.loop.until(func() bool { return len(fx.player.loaded()) == 2 }), ShouldBeTrue)
			So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

			state := fx.feed.seq.State()
			So(fx.feed.Update(playerMsg{event: player.Event{Kind: player.Ended, Tag: old}}), ShouldNotBeNil)
			So(fx.feed.seq.State(), ShouldResemble, state)
			So(fx.feed.Status(), ShouldEqual, Playing)
			So(fx.player.loaded(), ShouldHaveLength, 2)
		})
	})

	Convey("Given a word feed with a long pause before repeats", t, func() {
		fx := setup(false, Options{Mode: stream.ModeWord, Pause: time.Hour})
		defer fx.feed.Close()
		So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

		Convey("A skip cancels the pending pause", func() {
			fx.player.finish() // native
			So(fx.loop.until(func() bool {
				return fx.feed.Progress().Phase == sequencer.Target && fx.feed.Status() == Playing
			}), ShouldBeTrue)

			fx.player.finish() // first target; the repeat now waits
			So(fx.loop.until(fx.status(Waiting)), ShouldBeTrue)

			loads := len(fx.player.loaded())
			fx.loop.exec(fx.feed.Advance())
			So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)
			fx.loop.settle(20 * time.Millisecond)

			So(fx.player.loaded(), ShouldHaveLength, loads+1)
			So(fx.feed.Progress().Phase, ShouldEqual, sequencer.Native)
			So(fx.feed.Progress().Repeat, ShouldEqual, 1)
		})
	})
}

func TestFailures(t *testing.T) {
	Convey("Given a server that fails the first request", t, func() {
		content := streamtest.Default()
		src := &source{content: content, fail: 1}
		p := newSpeaker(false)
		f := New(src, p, Options{Pair: content.Pair})
		defer f.Close()

		l := newLoop(f)
		l.exec(f.Init())

		So(l.until(func() bool { return f.Status() == Stalled }), ShouldBeTrue)
		So(l.until(func() bool { return len(l.notices) == 1 }), ShouldBeTrue)
		So(l.notices[0], ShouldContainSubstring, "connection refused")
		So(f.Current().IsAbsent(), ShouldBeTrue)

		Convey("Toggling retries the same request", func() {
			l.exec(f.Toggle())
			So(l.until(func() bool { return f.Status() == Playing }), ShouldBeTrue)

			requests := src.requests()
			So(requests, ShouldHaveLength, 2)
			So(requests[1].Token, ShouldResemble, requests[0].Token)
		})
	})

	Convey("Given a player that refuses to start once", t, func() {
		fx := setup(false, Options{})
		defer fx.feed.Close()

		fx.player.mu.Lock()
		fx.player.refuse = 1
		fx.player.mu.Unlock()

		So(fx.loop.until(fx.status(Stalled)), ShouldBeTrue)
		state := fx.feed.seq.State()

		Convey("Toggling starts the same clip without reloading", func() {
			fx.loop.exec(fx.feed.Toggle())
			So(fx.feed.Status(), ShouldEqual, Playing)
			So(fx.player.loaded(), ShouldHaveLength, 1)
			So(fx.feed.seq.State(), ShouldResemble, state)
		})
	})

	Convey("Given a feed paused while waiting to repeat a target", t, func() {
		fx := setup(false, Options{Pause: time.Hour})
		defer fx.feed.Close()
		So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

		fx.player.finish() // native
		So(fx.loop.until(func() bool {
			return fx.feed.Progress().Phase == sequencer.Target && fx.feed.Status() == Playing
		}), ShouldBeTrue)
		fx.player.finish() // first target
		So(fx.loop.until(fx.status(Waiting)), ShouldBeTrue)

		fx.loop.exec(fx.feed.Toggle())
		So(fx.feed.Status(), ShouldEqual, Paused)

		Convey("A skip that fails is retried by a single toggle", func() {
			fx.source.mu.Lock()
			fx.source.fail = 1
			fx.source.mu.Unlock()

			fx.loop.exec(fx.feed.Advance())
			So(fx.loop.until(fx.status(Stalled)), ShouldBeTrue)
			before := fx.source.requests()

			fx.loop.exec(fx.feed.Toggle())
			So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

			after := fx.source.requests()
			So(after, ShouldHaveLength, len(before)+1)
			So(after[len(after)-1].Token, ShouldResemble, before[len(before)-1].Token)
		})
	})

	Convey("Given a feed whose skip failed", t, func() {
		fx := setup(false, Options{})
		defer fx.feed.Close()
		So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

		fx.source.mu.Lock()
		fx.source.fail = 1
		fx.source.mu.Unlock()

		fx.loop.exec(fx.feed.Advance())
		So(fx.loop.until(fx.status(Stalled)), ShouldBeTrue)
		requests := len(fx.source.requests())

		Convey("After a replay a refused start is retried in place", func() {
			fx.player.mu.Lock()
			fx.player.refuse = 1
			fx.player.mu.Unlock()

			fx.loop.exec(fx.feed.Replay())
			So(fx.loop.until(fx.status(Stalled)), ShouldBeTrue)
			loads := len(fx.player.loaded())

			fx.loop.exec(fx.feed.Toggle())
			So(fx.feed.Status(), ShouldEqual, Playing)
			So(fx.player.loaded(), ShouldHaveLength, loads)
			So(fx.source.requests(), ShouldHaveLength, requests)
		})
	})
}

func TestResume(t *testing.T) {
	for _, mode := range stream.Modes {
		Convey("Given a "+string(mode)+" feed that moved on to its second batch", t, func() {
			fx := setup(false, Options{Mode: mode})
			defer fx.feed.Close()
			So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

			first := fx.feed.Token()
			So(fx.journal.visited, ShouldResemble, []cursor.Token{first})

			for fx.feed.Token() == first {
				fx.loop.exec(fx.feed.Advance())
				So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)
			}
			So(fx.journal.visited, ShouldHaveLength, 2)

			playing := fx.feed.Current().MustGet()
			word := fx.feed.Word()
			saved := fx.journal.visited[1]
			So(saved, ShouldResemble, first)

			Convey("A feed started from the saved token plays the same batch again", func() {
				again := setup(false, Options{Mode: mode, Start: saved})
				defer again.feed.Close()
				So(again.loop.until(again.status(Playing)), ShouldBeTrue)

				So(again.feed.Current().MustGet().Key(), ShouldEqual, playing.Key())
				So(again.feed.Word(), ShouldEqual, word)
			})

			Convey("After stepping back the batch's own token is saved", func() {
				fx.loop.exec(fx.feed.Retreat())
				So(fx.loop.until(func() bool { return len(fx.journal.visited) == 3 }), ShouldBeTrue)
				So(fx.journal.visited[2], ShouldResemble, fx.feed.Token())
			})
		})
	}
}

func TestIntents(t *testing.T) {
	Convey("Given a playing feed", t, func() {
		fx := setup(false, Options{})
		defer fx.feed.Close()
		So(fx.loop.until(fx.status(Playing)), ShouldBeTrue)

		Convey("Toggle pauses and resumes", func() {
			fx.loop.exec(fx.feed.Toggle())
			So(fx.feed.Status(), ShouldEqual, Paused)
			So(fx.player.pauses, ShouldBeGreaterThan, 0)

			fx.loop.exec(fx.feed.Toggle())
			So(fx.feed.Status(), ShouldEqual, Playing)
		})

		Convey("Reports reach the server and are acknowledged", func() {
			fx.loop.exec(fx.feed.Report(stream.ReasonSentence))
			So(fx.loop.until(func() bool { return len(fx.loop.notices) == 1 }), ShouldBeTrue)
			So(strings.HasPrefix(fx.loop.notices[0], "Reported"), ShouldBeTrue)
			So(fx.source.reports, ShouldResemble, []stream.Reason{stream.ReasonSentence})
		})

		Convey("Progress describes the sequencer position", func() {
			progress := fx.feed.Progress()
			So(progress.Repeat, ShouldEqual, 1)
			So(progress.Of, ShouldEqual, 3)
			So(progress.Targets, ShouldEqual, 2)
		})

		Convey("After Close the feed ignores everything", func() {
			So(fx.feed.Close(), ShouldBeNil)
			So(fx.feed.Advance(), ShouldBeNil)
			So(fx.feed.Update(timerMsg{}), ShouldBeNil)
			So(fx.player.closed, ShouldBeTrue)
		})
	})
}

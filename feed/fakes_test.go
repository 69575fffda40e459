package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/internal/streamtest"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/stream"
	tea "github.com/charmbracelet/bubbletea"
)

// source serves streamtest content from memory.
type source struct {
	content streamtest.Content

	mu      sync.Mutex
	fetches []stream.Request
	fail    int
	gate    chan struct{}
	reports []stream.Reason
}

func (s *source) Fetch(ctx context.Context, req stream.Request) (item.Batch, cursor.Token, error) {
	s.mu.Lock()
	s.fetches = append(s.fetches, req)
	gate := s.gate
	fail := s.fail > 0
	if fail {
		s.fail--
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return item.Batch{}, cursor.Token{}, ctx.Err()
		}
	}

	if fail {
		return item.Batch{}, cursor.Token{}, errors.New("connection refused")
	}

	seed, err := s.content.Seed(req.Token.String())
	if err != nil {
		return item.Batch{}, cursor.Token{}, err
	}

	state := s.content.Step(seed, req.Direction.Action())
	token := cursor.NewToken(streamtest.Hex(state))

	if req.Mode == stream.ModeWord {
		word, items := s.content.Word(state)
		return item.Many(word, items), token, nil
	}

	return item.Single(s.content.Sentence(state)), token, nil
}

func (s *source) Report(_ context.Context, _ *item.Item, reason stream.Reason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reason)
	return nil
}

func (s *source) requests() []stream.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stream.Request(nil), s.fetches...)
}

// speaker is a player that loads instantly and, when auto is set, plays every clip to its end at once.
type speaker struct {
	events chan player.Event

	mu      sync.Mutex
	auto    bool
	loads   []string
	tags    []uint64
	plays   int
	pauses  int
	refuse  int
	closed  bool
	playing bool
}

func newSpeaker(auto bool) *speaker {
	return &speaker{events: make(chan player.Event, 256), auto: auto}
}

func (p *speaker) Load(clip string, tag uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads = append(p.loads, clip)
	p.tags = append(p.tags, tag)
	p.playing = false
	p.events <- player.Event{Kind: player.Loaded, Tag: tag}
	return nil
}

func (p *speaker) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refuse > 0 {
		p.refuse--
		return errors.New("autoplay blocked")
	}
	p.plays++
	p.playing = true
	if p.auto {
		p.events <- player.Event{Kind: player.Ended, Tag: p.tags[len(p.tags)-1]}
	}
	return nil
}

// finish ends the clip loaded last.
func (p *speaker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events <- player.Event{Kind: player.Ended, Tag: p.tags[len(p.tags)-1]}
}

func (p *speaker) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	p.playing = false
	return nil
}

func (p *speaker) Resume() error {
	return p.Play()
}

func (p *speaker) Events() <-chan player.Event {
	return p.events
}

func (p *speaker) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	return nil
}

func (p *speaker) loaded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loads...)
}

type journal struct {
	mu       sync.Mutex
	visited  []cursor.Token
	finished []*item.Item
}

func (j *journal) Visited(_ item.Pair, _ stream.Mode, _ stream.Order, token cursor.Token) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.visited = append(j.visited, token)
}

func (j *journal) Finished(_ item.Pair, i *item.Item) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finished = append(j.finished, i)
}

// loop runs commands the way Bubble Tea does and feeds their messages back into the feed.
type loop struct {
	feed    *Feed
	msgs    chan tea.Msg
	notices []string
}

func newLoop(f *Feed) *loop {
	return &loop{feed: f, msgs: make(chan tea.Msg, 256)}
}

func (l *loop) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		l.msgs <- cmd()
	}()
}

func (l *loop) dispatch(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range msg {
			l.exec(cmd)
		}
	case string:
		l.notices = append(l.notices, msg)
	default:
		l.exec(l.feed.Update(msg))
	}
}

// until processes messages until cond holds or a second passes without it.
func (l *loop) until(cond func() bool) bool {
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case msg := <-l.msgs:
			l.dispatch(msg)
		case <-deadline:
			return false
		}
	}
	return true
}

// settle processes messages for d.
func (l *loop) settle(d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case msg := <-l.msgs:
			l.dispatch(msg)
		case <-deadline:
			return
		}
	}
}

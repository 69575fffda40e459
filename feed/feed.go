// Package feed keeps the cursor and the sequencer in step and drives the player from a Bubble Tea event loop.
//
// All state changes happen in Update and in the intent methods, which must be called from the
// same loop. Blocking work (fetching, reporting, timers, waiting for player events) runs in
// commands whose results come back as messages; results that were superseded meanwhile are dropped.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/player"
	"github.com/calcoloergosum/vocagen/sequencer"
	"github.com/calcoloergosum/vocagen/stream"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// DefaultGap is the silence between the last repeat of an item and the next item.
const DefaultGap = time.Second

// Source produces items. *stream.Client implements it.
type Source interface {
	Fetch(ctx context.Context, req stream.Request) (item.Batch, cursor.Token, error)
	Report(ctx context.Context, i *item.Item, reason stream.Reason) error
}

// Journal is told about progress, e.g. to save resume tokens.
type Journal interface {
	// Visited is called after every batch that was applied.
	Visited(pair item.Pair, mode stream.Mode, order stream.Order, token cursor.Token)

	// Finished is called when an item has been played the configured number of times.
	Finished(pair item.Pair, i *item.Item)
}

// Options configure a Feed.
type Options struct {
	Pair       item.Pair
	Mode       stream.Mode
	Order      stream.Order
	Repeat     int
	HideNative bool
	Pause      time.Duration
	Gap        time.Duration
	Start      cursor.Token
	Journal    Journal
}

// Status is what the feed is doing right now.
type Status int

const (
	Idle Status = iota
	Fetching
	Loading
	Playing
	Waiting
	Paused
	Stalled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Waiting:
		return "waiting"
	case Paused:
		return "paused"
	case Stalled:
		return "stalled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Progress is the sequencing position within the current item.
type Progress struct {
	Phase   sequencer.Phase
	Repeat  int
	Of      int
	Target  int
	Targets int
}

type timerKind int

const (
	pauseTimer timerKind = iota
	gapTimer
)

type (
	fetchedMsg struct {
		req   cursor.FetchRequest
		batch item.Batch
		token cursor.Token
		err   error
	}

	playerMsg struct {
		event player.Event
	}

	playerClosedMsg struct{}

	timerMsg struct {
		id   uint64
		kind timerKind
		gen  sequencer.Generation
		clip sequencer.PlayClip
	}

	reportedMsg struct {
		item   *item.Item
		reason stream.Reason
		err    error
	}
)

// Feed is the item feed adapter.
type Feed struct {
	source Source
	player player.Player
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	cursor *cursor.Cursor
	seq    *sequencer.Sequencer
	word   string
	status Status

	// tag identifies the clip handed to the player last; events for other tags are stale.
	tag    uint64
	tagGen sequencer.Generation
	loaded bool

	paused bool
	retry  mo.Option[cursor.Direction]

	timerID uint64
	stop    chan struct{}
	pending mo.Option[timerMsg]
	held    mo.Option[timerMsg]

	closed bool
}

// New creates a feed. The feed owns p and closes it in Close.
func New(source Source, p player.Player, opts Options) *Feed {
	if opts.Repeat <= 0 {
		opts.Repeat = sequencer.DefaultRepeat
	}
	if opts.Pause < 0 {
		opts.Pause = 0
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	if opts.Mode == "" {
		opts.Mode = stream.ModeSentence
	}
	if opts.Order == "" {
		opts.Order = stream.OrderRandom
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Feed{
		source: source,
		player: p,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		cursor: cursor.New(opts.Start),
		seq:    sequencer.New(sequencer.WithPause(opts.Pause)),
	}
}

// Init starts listening to the player and fetches the first batch.
func (f *Feed) Init() tea.Cmd {
	return tea.Batch(f.listen(), f.Advance())
}

// Update handles the feed's own messages and ignores everything else.
func (f *Feed) Update(msg tea.Msg) tea.Cmd {
	if f.closed {
		return nil
	}

	switch msg := msg.(type) {
	case fetchedMsg:
		return f.onFetched(msg)
	case playerMsg:
		return tea.Batch(f.listen(), f.onPlayerEvent(msg.event))
	case playerClosedMsg:
		log.Warn("player event stream closed")
		f.status = Stalled
		return notify("Player stopped")
	case timerMsg:
		return f.onTimer(msg)
	case reportedMsg:
		if msg.err != nil {
			log.Errorf("report %s (%s): %s", msg.item.Key(), msg.reason, msg.err)
			return notify("Report failed: %s", msg.err)
		}
		return notify("Reported, thank you")
	}

	return nil
}

// Advance skips to the next item.
func (f *Feed) Advance() tea.Cmd {
	if f.closed {
		return nil
	}
	return f.move(f.cursor.Advance())
}

// Retreat goes back to the previous item.
func (f *Feed) Retreat() tea.Cmd {
	if f.closed {
		return nil
	}
	return f.move(f.cursor.Retreat())
}

// Replay plays the current item again from its first clip.
func (f *Feed) Replay() tea.Cmd {
	if f.closed {
		return nil
	}
	return f.install()
}

// Toggle pauses or resumes playback. On a stalled feed it retries whatever failed.
func (f *Feed) Toggle() tea.Cmd {
	switch {
	case f.closed:
		return nil
	case f.paused:
		return f.resume()
	case f.status == Stalled:
		return f.retryFailed()
	default:
		return f.pause()
	}
}

// Report flags the current item.
func (f *Feed) Report(reason stream.Reason) tea.Cmd {
	current, ok := f.cursor.Current().Get()
	if !ok || f.closed {
		return nil
	}

	ctx := f.ctx
	return func() tea.Msg {
		err := f.source.Report(ctx, current, reason)
		return reportedMsg{item: current, reason: reason, err: err}
	}
}

// Close stops timers, invalidates everything in flight and closes the player.
func (f *Feed) Close() error {
	if f.closed {
		return nil
	}

	f.closed = true
	f.cancel()
	f.stopTimer()
	f.seq.Invalidate()
	f.cursor.Invalidate()
	f.status = Idle

	return f.player.Close()
}

// Current returns the item being played.
func (f *Feed) Current() mo.Option[*item.Item] {
	return f.cursor.Current()
}

// Word returns the word of the current batch in word mode.
func (f *Feed) Word() string {
	return f.word
}

// Position returns the index of the current item within its batch and the batch size.
func (f *Feed) Position() (int, int) {
	return f.cursor.Position(), f.cursor.Len()
}

// Status returns what the feed is doing.
func (f *Feed) Status() Status {
	return f.status
}

// Progress returns the sequencing position within the current item.
func (f *Feed) Progress() Progress {
	state := f.seq.State()
	current := f.cursor.Current()

	targets := 0
	if i, ok := current.Get(); ok {
		if clips, err := i.Clips(); err == nil {
			targets = len(clips.Targets)
		}
	}

	return Progress{
		Phase:   state.Phase,
		Repeat:  state.RepeatCount + 1,
		Of:      f.seq.Repeat(),
		Target:  state.TargetIndex + 1,
		Targets: targets,
	}
}

// Token returns the token of the current batch.
func (f *Feed) Token() cursor.Token {
	return f.cursor.Token()
}

// Options returns the options the feed runs with.
func (f *Feed) Options() Options {
	return f.opts
}

func (f *Feed) move(m cursor.Move) tea.Cmd {
	f.stopTimer()
	f.held = mo.None[timerMsg]()
	f.retry = mo.None[cursor.Direction]()

	switch m := m.(type) {
	case cursor.LocalMove:
		return f.install()
	case cursor.FetchRequest:
		f.silence()
		f.status = Fetching
		return f.fetch(m)
	}

	return nil
}

// silence drops the current clip set and stops the audio that belongs to it.
func (f *Feed) silence() {
	f.seq.Invalidate()
	f.loaded = false
	if err := f.player.Pause(); err != nil && !errors.Is(err, player.ErrClosed) {
		log.Debugf("pause player: %s", err)
	}
}

func (f *Feed) fetch(req cursor.FetchRequest) tea.Cmd {
	request := stream.Request{
		Pair:      f.opts.Pair,
		Mode:      f.opts.Mode,
		Order:     f.opts.Order,
		Direction: req.Direction,
		Token:     req.Token,
	}

	ctx := f.ctx
	return func() tea.Msg {
		batch, token, err := f.source.Fetch(ctx, request)
		return fetchedMsg{req: req, batch: batch, token: token, err: err}
	}
}

func (f *Feed) onFetched(msg fetchedMsg) tea.Cmd {
	if msg.err != nil {
		if !f.cursor.Fail(msg.req) {
			log.Debugf("dropping superseded fetch error: %s", msg.err)
			return nil
		}

		log.Errorf("fetch %s: %s", msg.req.Direction, msg.err)
		f.status = Stalled
		f.retry = mo.Some(msg.req.Direction)
		return notify("Could not load items: %s", msg.err)
	}

	switch err := f.cursor.Apply(msg.req, msg.batch.Items(), msg.token); {
	case errors.Is(err, cursor.ErrStale):
		log.Debugf("dropping superseded %s batch", msg.req.Direction)
		return nil
	case err != nil:
		log.Warnf("fetch %s: %s", msg.req.Direction, err)
		f.status = Stalled
		f.retry = mo.Some(msg.req.Direction)
		return notify("The server sent no items")
	}

	f.word = msg.batch.Word()
	log.With(log.Fields{"pair": f.opts.Pair.String(), "token": msg.token.String(), "items": f.cursor.Len()}).Debug("batch applied")

	if f.opts.Journal != nil {
		f.opts.Journal.Visited(f.opts.Pair, f.opts.Mode, f.opts.Order, msg.resumeToken())
	}

	return f.install()
}

// resumeToken is the token a new feed starts from to get this batch again.
// A forward step from a known token is replayed from that token. The server cannot step
// back from an unknown seed, so a fresh stream or a backward step saves the batch's own
// token and resuming continues with the batch after it.
func (msg fetchedMsg) resumeToken() cursor.Token {
	if msg.req.Direction == cursor.Forward && !msg.req.Token.IsZero() {
		return msg.req.Token
	}
	return msg.token
}

// install restarts the sequencer on the current item.
func (f *Feed) install() tea.Cmd {
	f.stopTimer()
	f.held = mo.None[timerMsg]()
	f.retry = mo.None[cursor.Direction]()

	current, ok := f.cursor.Current().Get()
	if !ok {
		f.silence()
		f.status = Idle
		return nil
	}

	clips, err := current.Clips()
	if err != nil {
		f.silence()
		f.status = Stalled
		log.Warnf("install %s: %s", current.Key(), err)
		return notify("This item has no audio")
	}

	play, err := f.seq.Install(clips, f.opts.Repeat, f.opts.HideNative)
	if err != nil {
		f.silence()
		f.status = Stalled
		log.Warnf("install %s: %s", current.Key(), err)
		return notify("This item has no audio in the target language")
	}

	return f.start(play)
}

// start plays p, after its pause if it has one.
func (f *Feed) start(p sequencer.PlayClip) tea.Cmd {
	if p.Pause > 0 {
		f.status = Waiting
		return f.schedule(timerMsg{kind: pauseTimer, gen: p.Generation, clip: p}, p.Pause)
	}
	return f.load(p)
}

func (f *Feed) load(p sequencer.PlayClip) tea.Cmd {
	f.tag++
	f.tagGen = p.Generation
	f.loaded = false

	if err := f.player.Load(p.Clip.String(), f.tag); err != nil {
		log.Errorf("load %s: %s", p.Clip, err)
		f.status = Stalled
		return notify("Could not load audio: %s", err)
	}

	if f.paused {
		f.status = Paused
	} else {
		f.status = Loading
	}

	log.Tracef("clip %d loading: %s", f.tag, p.Clip)
	return nil
}

func (f *Feed) onPlayerEvent(e player.Event) tea.Cmd {
	if e.Tag != f.tag || f.tagGen != f.seq.Generation() {
		log.Debugf("dropping stale %s event for clip %d", e.Kind, e.Tag)
		return nil
	}

	switch e.Kind {
	case player.Loaded:
		f.loaded = true
		if f.paused {
			f.status = Paused
			return nil
		}
		return f.play(f.player.Play)

	case player.Ended:
		f.loaded = false
		action, ok := f.seq.OnClipEnded(f.tagGen).Get()
		if !ok {
			return nil
		}

		switch action := action.(type) {
		case sequencer.PlayClip:
			return f.start(action)
		case sequencer.ItemFinished:
			if current, ok := f.cursor.Current().Get(); ok && f.opts.Journal != nil {
				f.opts.Journal.Finished(f.opts.Pair, current)
			}
			f.status = Waiting
			return f.schedule(timerMsg{kind: gapTimer, gen: action.Generation}, f.opts.Gap)
		}

	case player.Failed:
		f.loaded = false
		f.status = Stalled
		log.Errorf("clip %d failed: %s", e.Tag, e.Err)
		return notify("Playback failed, press space to retry")
	}

	return nil
}

// play starts or resumes the loaded clip. A refusal leaves the sequencer where it is.
func (f *Feed) play(start func() error) tea.Cmd {
	if err := start(); err != nil {
		log.Warnf("start clip %d: %s", f.tag, err)
		f.status = Stalled
		return notify("Playback could not start, press space to retry")
	}
	f.status = Playing
	return nil
}

func (f *Feed) onTimer(msg timerMsg) tea.Cmd {
	if msg.id != f.timerID || msg.gen != f.seq.Generation() {
		return nil
	}
	f.pending = mo.None[timerMsg]()

	if f.paused && msg.kind == gapTimer {
		f.held = mo.Some(msg)
		return nil
	}

	switch msg.kind {
	case pauseTimer:
		return f.load(msg.clip)
	case gapTimer:
		return f.Advance()
	}

	return nil
}

func (f *Feed) pause() tea.Cmd {
	f.paused = true

	if pending, ok := f.pending.Get(); ok {
		f.held = mo.Some(pending)
		f.stopTimer()
	}

	if f.status == Playing {
		if err := f.player.Pause(); err != nil {
			log.Warnf("pause: %s", err)
		}
	}

	if f.status != Fetching {
		f.status = Paused
	}

	return nil
}

func (f *Feed) resume() tea.Cmd {
	f.paused = false

	if held, ok := f.held.Get(); ok {
		f.held = mo.None[timerMsg]()
		held.id = f.timerID
		return f.onTimer(held)
	}

	switch {
	case f.status == Fetching:
		return nil
	case f.loaded:
		return f.play(f.player.Resume)
	case f.seq.Active():
		f.status = Loading
		return nil
	default:
		return f.retryFailed()
	}
}

// retryFailed repeats whatever left the feed stalled: a fetch, a clip start, or a clip load.
func (f *Feed) retryFailed() tea.Cmd {
	if direction, ok := f.retry.Get(); ok {
		if direction == cursor.Backward {
			return f.Retreat()
		}
		return f.Advance()
	}

	if f.loaded {
		return f.play(f.player.Play)
	}

	if clip, ok := f.seq.Current().Get(); ok {
		return f.load(clip)
	}

	if f.cursor.Current().IsAbsent() {
		return f.Advance()
	}

	return f.install()
}

// schedule delivers msg after d unless the timer is stopped first.
func (f *Feed) schedule(msg timerMsg, d time.Duration) tea.Cmd {
	f.stopTimer()

	f.timerID++
	msg.id = f.timerID
	f.pending = mo.Some(msg)

	stop := make(chan struct{})
	f.stop = stop

	return func() tea.Msg {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return msg
		case <-stop:
			return nil
		}
	}
}

func (f *Feed) stopTimer() {
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
	f.timerID++
	f.pending = mo.None[timerMsg]()
}

func (f *Feed) listen() tea.Cmd {
	events := f.player.Events()
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return playerClosedMsg{}
		}
		return playerMsg{event: e}
	}
}

func notify(format string, args ...any) tea.Cmd {
	msg := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return msg
	}
}

// Package sequencer decides, clip by clip, what an item plays: the native clip once,
// then the target clips for a configured number of repeats with a pause before each repeat.
//
// The Sequencer is a pure state machine. It never touches a player or a clock; it returns
// actions and leaves scheduling to the caller. Every clip set it installs gets a new
// generation, and clip-ended notifications carrying an older generation are ignored.
package sequencer

import (
	"errors"
	"fmt"
	"time"

	"github.com/calcoloergosum/vocagen/item"
	"github.com/samber/mo"
)

const (
	// DefaultRepeat is used when the caller asks for zero or fewer repeats.
	DefaultRepeat = 3

	// DefaultPause precedes every repeat of a target clip.
	DefaultPause = time.Second
)

// ErrNoTargets is returned by Install for a clip set without target clips.
var ErrNoTargets = errors.New("clip set has no target clips")

// Phase tells which language is being played.
type Phase int

const (
	Native Phase = iota
	Target
)

func (p Phase) String() string {
	switch p {
	case Native:
		return "native"
	case Target:
		return "target"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Generation tags one installed clip set.
type Generation uint64

// State is the position of the sequencer within the current clip set.
type State struct {
	Phase       Phase
	TargetIndex int
	RepeatCount int
}

// Action is what the caller must do after a clip ended: either PlayClip or ItemFinished.
type Action interface {
	generation() Generation
}

// PlayClip asks the caller to wait Pause, then play Clip.
type PlayClip struct {
	Clip       item.Clip
	Pause      time.Duration
	Generation Generation
}

func (p PlayClip) generation() Generation { return p.Generation }

// ItemFinished reports that the item has been played the configured number of times.
type ItemFinished struct {
	Generation Generation
}

func (f ItemFinished) generation() Generation { return f.Generation }

// Sequencer drives one audio output through the clips of one item at a time.
// It is not safe for concurrent use; all calls are expected from a single event loop.
type Sequencer struct {
	pause time.Duration

	clips  item.ClipSet
	repeat int
	state  State
	gen    Generation

	// current is the clip selected for playback, absent when idle or finished.
	current mo.Option[item.Clip]
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithPause sets the pause before each repeat. Negative values are treated as zero.
func WithPause(d time.Duration) Option {
	return func(s *Sequencer) {
		s.pause = max(d, 0)
	}
}

// New returns an idle sequencer.
func New(options ...Option) *Sequencer {
	s := &Sequencer{pause: DefaultPause}
	for _, option := range options {
		option(s)
	}
	return s
}

// Install replaces the current clip set and returns the first clip to play, without pause.
// Any clip set installed before, including a pause pending for it, is superseded even when
// the new set is rejected.
func (s *Sequencer) Install(clips item.ClipSet, nRepeat int, hideNative bool) (PlayClip, error) {
	s.gen++
	s.current = mo.None[item.Clip]()
	s.state = State{}

	if len(clips.Targets) == 0 {
		s.clips = item.ClipSet{}
		return PlayClip{}, ErrNoTargets
	}

	if nRepeat <= 0 {
		nRepeat = DefaultRepeat
	}

	s.clips = clips
	s.repeat = nRepeat

	if native, ok := clips.Native.Get(); ok && !hideNative {
		s.state.Phase = Native
		s.current = mo.Some(native)
	} else {
		s.state.Phase = Target
		s.current = mo.Some(clips.Targets[0])
	}

	return PlayClip{Clip: s.current.MustGet(), Generation: s.gen}, nil
}

// OnClipEnded advances past the clip that just ended. Notifications for a superseded
// generation, or arriving after the item finished, yield no action and change nothing.
func (s *Sequencer) OnClipEnded(gen Generation) mo.Option[Action] {
	if gen != s.gen || s.current.IsAbsent() {
		return mo.None[Action]()
	}

	switch s.state.Phase {
	case Native:
		s.state = State{Phase: Target}
		return s.play(0)
	default:
		if s.state.RepeatCount+1 < s.repeat {
			s.state.RepeatCount++
			if len(s.clips.Targets) > 1 {
				s.state.TargetIndex = (s.state.TargetIndex + 1) % len(s.clips.Targets)
			}
			return s.play(s.pause)
		}

		s.state.RepeatCount = 0
		s.current = mo.None[item.Clip]()
		return mo.Some[Action](ItemFinished{Generation: s.gen})
	}
}

func (s *Sequencer) play(pause time.Duration) mo.Option[Action] {
	clip := s.clips.Targets[s.state.TargetIndex]
	s.current = mo.Some(clip)
	return mo.Some[Action](PlayClip{Clip: clip, Pause: pause, Generation: s.gen})
}

// Current returns the selected clip as an immediate PlayClip, for retrying a failed start.
func (s *Sequencer) Current() mo.Option[PlayClip] {
	clip, ok := s.current.Get()
	if !ok {
		return mo.None[PlayClip]()
	}
	return mo.Some(PlayClip{Clip: clip, Generation: s.gen})
}

// Invalidate drops the current clip set so that every outstanding notification becomes stale.
func (s *Sequencer) Invalidate() {
	s.gen++
	s.clips = item.ClipSet{}
	s.current = mo.None[item.Clip]()
	s.state = State{}
}

// Generation returns the tag of the installed clip set.
func (s *Sequencer) Generation() Generation {
	return s.gen
}

// State returns a snapshot of the sequencing position.
func (s *Sequencer) State() State {
	return s.state
}

// Repeat returns the repeat count of the installed clip set.
func (s *Sequencer) Repeat() int {
	return s.repeat
}

// Active reports whether a clip is selected, i.e. the item has not finished.
func (s *Sequencer) Active() bool {
	return s.current.IsPresent()
}

// Package player defines the audio output used by the trainer.
// Two backends exist: mpv driven over its JSON-IPC socket, and a native PortAudio speaker.
package player

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by Play when no clip is ready.
var ErrNotLoaded = errors.New("no clip loaded")

// ErrClosed is returned by every method once the player is closed.
var ErrClosed = errors.New("player closed")

// Kind of playback event.
type Kind int

const (
	// Loaded means the clip data is ready and Play may be called.
	Loaded Kind = iota + 1
	// Ended means the clip played to its end.
	Ended
	// Failed means the clip could not be loaded or played.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports what happened to the clip loaded with Tag.
type Event struct {
	Kind Kind
	Tag  uint64
	Err  error
}

// Player plays one clip at a time.
//
// Load only changes the source; readiness is reported later by a Loaded event carrying the same tag.
// Loading a new clip supersedes the previous one, whose events may still arrive and must be
// recognized by their tag.
type Player interface {
	// Load replaces the current source.
	Load(clip string, tag uint64) error

	// Play starts the loaded clip from the beginning of what remains.
	// An error means playback could not start; the clip stays loaded.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Resume continues suspended playback.
	Resume() error

	// Events delivers playback events. The channel is closed by Close.
	Events() <-chan Event

	// Close releases the backend.
	Close() error
}

const (
	MPVName    = "mpv"
	NativeName = "native"
)

// Names of the available backends.
var Names = []string{MPVName, NativeName}

// New creates the backend with the given name.
func New(name string) (Player, error) {
	switch name {
	case MPVName, "":
		return NewMPV(), nil
	case NativeName:
		return NewSpeaker()
	default:
		return nil, fmt.Errorf("unknown player %q, expected one of %v", name, Names)
	}
}

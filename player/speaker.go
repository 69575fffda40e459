package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/calcoloergosum/vocagen/internal/cache"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/network"
	"github.com/calcoloergosum/vocagen/util"
)

// framesPerBuffer is the number of frames handed to the output per write.
const framesPerBuffer = 1024

// Speaker plays clips through the default audio device without any external program.
// Clips are downloaded, decoded to PCM in memory, then streamed to the output.
type Speaker struct {
	client *http.Client
	out    output
	decode decoder

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu   sync.Mutex
	cond *sync.Cond
	// gen changes on every Load; goroutines working for an older gen stop.
	gen     uint64
	tag     uint64
	clip    *pcm
	offset  int
	playing bool
	paused  bool
}

// NewSpeaker initializes the audio device.
func NewSpeaker() (*Speaker, error) {
	out := &portAudioOutput{}
	if err := out.Initialize(); err != nil {
		return nil, err
	}
	return newSpeaker(out, decodeMP3, network.Client), nil
}

func newSpeaker(out output, decode decoder, client *http.Client) *Speaker {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Speaker{
		client: client,
		out:    out,
		decode: decode,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Events implements Player.
func (s *Speaker) Events() <-chan Event {
	return s.events
}

// Load implements Player. The clip is fetched and decoded in the background.
func (s *Speaker) Load(clip string, tag uint64) error {
	if s.closed() {
		return ErrClosed
	}

	if _, err := sanitizeMediaTarget(clip); err != nil {
		return fmt.Errorf("invalid clip: %w", err)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.tag = tag
	s.clip = nil
	s.offset = 0
	s.playing = false
	s.paused = false
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Add(1)
	go s.load(gen, tag, clip)

	return nil
}

func (s *Speaker) load(gen, tag uint64, clip string) {
	defer s.wg.Done()

	var audio *pcm
	data, err := s.fetch(clip)
	if err == nil {
		audio, err = s.decode(data)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	if err == nil {
		s.clip = audio
	}
	s.mu.Unlock()

	if err != nil {
		log.Warnf("speaker: loading %s: %s", clip, err)
		s.emit(Event{Kind: Failed, Tag: tag, Err: err})
		return
	}

	s.emit(Event{Kind: Loaded, Tag: tag})
}

func (s *Speaker) fetch(clip string) ([]byte, error) {
	key := cache.Key(clip)
	if data, ok := cache.Read(key); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, clip, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", clip, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := cache.Write(key, data); err != nil {
		log.Warnf("speaker: caching %s: %s", clip, err)
	}

	return data, nil
}

// Play implements Player. Opening the output happens synchronously so a device error is returned here.
func (s *Speaker) Play() error {
	if s.closed() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clip == nil {
		return ErrNotLoaded
	}

	if s.playing {
		s.paused = false
		s.cond.Broadcast()
		return nil
	}

	sink, err := s.out.Open(s.clip.rate, s.clip.channels)
	if err != nil {
		return fmt.Errorf("open audio output: %w", err)
	}

	s.playing = true
	s.paused = false

	s.wg.Add(1)
	go s.play(s.gen, s.tag, s.clip, sink)

	return nil
}

func (s *Speaker) play(gen, tag uint64, clip *pcm, sink sink) {
	defer s.wg.Done()
	defer util.Ignore(sink.Close)

	chunk := framesPerBuffer * clip.channels

	for {
		s.mu.Lock()
		for s.paused && s.gen == gen && !s.closed() {
			s.cond.Wait()
		}

		if s.gen != gen || s.closed() {
			s.mu.Unlock()
			return
		}

		if s.offset >= len(clip.samples) {
			s.playing = false
			s.clip = nil
			s.mu.Unlock()
			s.emit(Event{Kind: Ended, Tag: tag})
			return
		}

		end := min(s.offset+chunk, len(clip.samples))
		samples := clip.samples[s.offset:end]
		s.offset = end
		s.mu.Unlock()

		if err := sink.Write(samples); err != nil {
			s.mu.Lock()
			current := s.gen == gen
			if current {
				s.playing = false
			}
			s.mu.Unlock()

			if current {
				s.emit(Event{Kind: Failed, Tag: tag, Err: err})
			}
			return
		}
	}
}

// Pause implements Player.
func (s *Speaker) Pause() error {
	if s.closed() {
		return ErrClosed
	}

	s.mu.Lock()
	s.paused = s.playing
	s.mu.Unlock()
	return nil
}

// Resume implements Player.
func (s *Speaker) Resume() error {
	return s.Play()
}

func (s *Speaker) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Speaker) emit(e Event) {
	select {
	case s.events <- e:
	case <-s.done:
	}
}

// Close stops playback, waits for background work and releases the device.
func (s *Speaker) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()

		s.mu.Lock()
		s.gen++
		s.cond.Broadcast()
		s.mu.Unlock()

		s.wg.Wait()
		close(s.events)

		err = s.out.Terminate()
	})
	return err
}

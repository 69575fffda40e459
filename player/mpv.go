package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV plays clips in one long-lived, windowless mpv process controlled over JSON-IPC.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv exits
	mu         sync.Mutex    // serializes IPC commands

	startMu  sync.Mutex
	listener *EventListener

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	// mpv reports files in the order they were loaded; queued holds the tags of
	// loadfile commands whose start-file event has not arrived yet.
	tagsMu  sync.Mutex
	queued  []uint64
	current mo.Option[uint64]
	loaded  bool
}

// NewMPV returns a player that starts mpv on first use.
func NewMPV() *MPV {
	return &MPV{
		binary: "mpv",
		exited: make(chan struct{}),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// Events implements Player.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// Load implements Player. The clip is opened paused.
func (m *MPV) Load(clip string, tag uint64) error {
	if m.closed() {
		return ErrClosed
	}

	target, err := sanitizeMediaTarget(clip)
	if err != nil {
		return fmt.Errorf("invalid clip: %w", err)
	}

	if err := m.ensureStarted(); err != nil {
		return err
	}

	if err := m.set("pause", true); err != nil {
		return err
	}

	m.tagsMu.Lock()
	m.queued = append(m.queued, tag)
	m.loaded = false
	m.tagsMu.Unlock()

	if _, err := m.sendCommand([]interface{}{"loadfile", target, "replace"}); err != nil {
		m.tagsMu.Lock()
		m.queued = m.queued[:len(m.queued)-1]
		m.tagsMu.Unlock()
		return fmt.Errorf("loadfile: %w", err)
	}

	log.Tracef("mpv: loading %s as %d", target, tag)
	return nil
}

// Play implements Player.
func (m *MPV) Play() error {
	if m.closed() {
		return ErrClosed
	}

	m.tagsMu.Lock()
	loaded := m.loaded
	m.tagsMu.Unlock()

	if !loaded {
		return ErrNotLoaded
	}

	return m.set("pause", false)
}

// Pause implements Player.
func (m *MPV) Pause() error {
	if m.closed() {
		return ErrClosed
	}
	return m.set("pause", true)
}

// Resume implements Player.
func (m *MPV) Resume() error {
	return m.Play()
}

func (m *MPV) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *MPV) ensureStarted() error {
	m.startMu.Lock()
	defer m.startMu.Unlock()

	if m.listener != nil {
		return nil
	}

	if err := m.spawn(); err != nil {
		return err
	}

	return m.attach()
}

func (m *MPV) spawn() error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Vocagen, randomBytes))

	m.cmd = exec.Command(m.binary,
		"--no-terminal",
		"--really-quiet",
		"--no-video",
		"--idle=yes",
		"--pause",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// attach subscribes to the events of the mpv instance behind socketPath.
func (m *MPV) attach() error {
	listener := NewEventListener(m.socketPath, m.handle)
	if err := listener.Start("pause"); err != nil {
		return err
	}
	m.listener = listener
	return nil
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handle maps mpv events to player events.
func (m *MPV) handle(name string, event map[string]interface{}) {
	m.tagsMu.Lock()

	switch name {
	case "start-file":
		if len(m.queued) == 0 {
			m.current = mo.None[uint64]()
			break
		}
		m.current = mo.Some(m.queued[0])
		m.queued = m.queued[1:]
		m.tagsMu.Unlock()
		return

	case "file-loaded":
		tag, ok := m.current.Get()
		if !ok {
			break
		}
		m.loaded = true
		m.tagsMu.Unlock()
		m.emit(Event{Kind: Loaded, Tag: tag})
		return

	case "end-file":
		tag, ok := m.current.Get()
		if !ok {
			break
		}
		m.current = mo.None[uint64]()
		m.loaded = false
		m.tagsMu.Unlock()

		switch reason, _ := event["reason"].(string); reason {
		case "eof":
			m.emit(Event{Kind: Ended, Tag: tag})
		case "error":
			m.emit(Event{Kind: Failed, Tag: tag, Err: fmt.Errorf("mpv: %v", event["file_error"])})
		default:
			log.Tracef("mpv: clip %d ended (%s)", tag, reason)
		}
		return

	case "pause":
		log.Tracef("mpv: pause=%v", event["data"])
	}

	m.tagsMu.Unlock()
}

func (m *MPV) emit(e Event) {
	select {
	case m.events <- e:
	case <-m.done:
	}
}

// Close shuts mpv down and closes the event channel.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)

		m.startMu.Lock()
		defer m.startMu.Unlock()

		if m.listener != nil {
			_, _ = m.sendCommand([]interface{}{"quit"})
			m.listener.Stop()
			<-m.listener.Done()
		}

		if m.cmd != nil {
			select {
			case <-m.exited:
			case <-time.After(3 * time.Second):
				_ = killProcess(m.cmd)
			}
			_ = os.Remove(m.socketPath)
		}

		close(m.events)
	})
	return nil
}

func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// sanitizeMediaTarget rejects anything mpv could mistake for an option.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

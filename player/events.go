package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/calcoloergosum/vocagen/log"
)

// EventCallback receives mpv events by name. Property changes are delivered under the property name.
type EventCallback func(name string, event map[string]interface{})

// EventListener keeps a persistent IPC connection open and forwards mpv events.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	doneCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start connects and observes the given properties.
// Observers are registered on the listening connection itself since mpv scopes them per client.
func (el *EventListener) Start(properties ...string) error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for id, name := range properties {
		if err := writeCommand(conn, []interface{}{"observe_property", id + 1, name}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the listener. Done is closed once the read loop has returned.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	_ = el.conn.Close()
	el.listening = false
}

// Done is closed when the read loop exits.
func (el *EventListener) Done() <-chan struct{} {
	return el.doneCh
}

func (el *EventListener) readLoop() {
	defer close(el.doneCh)
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(el.conn)
	var partial []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		chunk, err := reader.ReadBytes('\n')
		partial = append(partial, chunk...)

		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		line := partial
		partial = nil
		el.processEvent(line)
	}
}

func (el *EventListener) processEvent(line []byte) {
	var event map[string]interface{}
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	if eventType == "property-change" {
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event)
		}
		return
	}

	el.callback(eventType, event)
}

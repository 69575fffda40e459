package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers JSON-IPC commands and broadcasts the events mpv would send.
type fakeMPV struct {
	listener net.Listener

	mu       sync.Mutex
	conns    []net.Conn
	commands [][]interface{}
	fail     map[string]bool
}

func newFakeMPV(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	l, err := net.Listen("unix", filepath.Join(dir, "mpv.sock"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{listener: l, fail: make(map[string]bool)}
	go f.accept()
	return f
}

func (f *fakeMPV) path() string {
	return f.listener.Addr().String()
}

func (f *fakeMPV) close() {
	_ = f.listener.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		_ = c.Close()
	}
}

func (f *fakeMPV) accept() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.mu.Unlock()
		go f.serve(conn)
	}
}

func (f *fakeMPV) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			continue
		}

		name, _ := cmd.Command[0].(string)

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		fail := f.fail[name]
		f.mu.Unlock()

		if fail {
			f.send(conn, map[string]interface{}{"error": "loading failed"})
			continue
		}

		// events go out before the reply, so they are queued by the time the command returns
		switch {
		case name == "loadfile":
			f.broadcast(map[string]interface{}{"event": "end-file", "reason": "stop"})
			f.broadcast(map[string]interface{}{"event": "start-file"})
			if cmd.Command[1] == "http://host/broken.mp3" {
				f.broadcast(map[string]interface{}{"event": "end-file", "reason": "error", "file_error": "unrecognized file format"})
			} else {
				f.broadcast(map[string]interface{}{"event": "file-loaded"})
			}
		case name == "set_property" && cmd.Command[1] == "pause" && cmd.Command[2] == false:
			f.broadcast(map[string]interface{}{"event": "end-file", "reason": "eof"})
		}

		// an unrelated event before the reply must be skipped by the client
		f.send(conn, map[string]interface{}{"event": "idle"})
		f.send(conn, map[string]interface{}{"error": "success", "data": nil})
	}
}

func (f *fakeMPV) send(conn net.Conn, v interface{}) {
	data, _ := json.Marshal(v)
	_, _ = conn.Write(append(data, '\n'))
}

func (f *fakeMPV) broadcast(v interface{}) {
	f.mu.Lock()
	conns := append([]net.Conn(nil), f.conns...)
	f.mu.Unlock()
	for _, c := range conns {
		f.send(c, v)
	}
}

func (f *fakeMPV) sent(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if c[0] == name {
			n++
		}
	}
	return n
}

func next(events <-chan Event) Event {
	select {
	case e := <-events:
		return e
	case <-time.After(3 * time.Second):
		return Event{}
	}
}

func attached(t *testing.T, f *fakeMPV) *MPV {
	m := NewMPV()
	m.socketPath = f.path()
	if err := m.attach(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMPV(t *testing.T) {
	Convey("Given mpv behind a socket", t, func() {
		fake := newFakeMPV(t)
		defer fake.close()

		m := attached(t, fake)
		defer m.Close()

		Convey("Playing before anything is loaded fails", func() {
			So(m.Play(), ShouldEqual, ErrNotLoaded)
		})

		Convey("A loaded clip reports readiness and its end with its tag", func() {
			So(m.Load("http://host/a.mp3", 7), ShouldBeNil)
			So(next(m.Events()), ShouldResemble, Event{Kind: Loaded, Tag: 7})

			So(m.Play(), ShouldBeNil)
			So(next(m.Events()), ShouldResemble, Event{Kind: Ended, Tag: 7})
			So(fake.sent("loadfile"), ShouldEqual, 1)
		})

		Convey("Consecutive loads are tagged in order", func() {
			So(m.Load("http://host/a.mp3", 1), ShouldBeNil)
			So(m.Load("http://host/b.mp3", 2), ShouldBeNil)

			So(next(m.Events()), ShouldResemble, Event{Kind: Loaded, Tag: 1})
			So(next(m.Events()), ShouldResemble, Event{Kind: Loaded, Tag: 2})
		})

		Convey("A broken clip fails with its tag", func() {
			So(m.Load("http://host/broken.mp3", 3), ShouldBeNil)

			e := next(m.Events())
			So(e.Kind, ShouldEqual, Failed)
			So(e.Tag, ShouldEqual, 3)
			So(e.Err.Error(), ShouldContainSubstring, "unrecognized file format")
			So(m.Play(), ShouldEqual, ErrNotLoaded)
		})

		Convey("A rejected loadfile is returned and leaves no tag behind", func() {
			fake.mu.Lock()
			fake.fail["loadfile"] = true
			fake.mu.Unlock()

			So(m.Load("http://host/a.mp3", 4), ShouldNotBeNil)

			m.tagsMu.Lock()
			So(m.queued, ShouldBeEmpty)
			m.tagsMu.Unlock()
		})

		Convey("Options are never passed as clips", func() {
			So(m.Load("--script=evil.lua", 5), ShouldNotBeNil)
			So(m.Load("ftp://host/a.mp3", 5), ShouldNotBeNil)
		})

		Convey("Close closes the event channel and rejects further use", func() {
			So(m.Close(), ShouldBeNil)
			_, open := <-m.Events()
			So(open, ShouldBeFalse)
			So(m.Load("http://host/a.mp3", 6), ShouldEqual, ErrClosed)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Backends are chosen by name", t, func() {
		p, err := New(MPVName)
		So(err, ShouldBeNil)
		So(p, ShouldHaveSameTypeAs, &MPV{})

		_, err = New("vlc")
		So(err, ShouldNotBeNil)
	})
}

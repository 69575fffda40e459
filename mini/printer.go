package mini

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// printer serializes output and holds it back while a prompt owns the terminal.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	held    bool
	pending bytes.Buffer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.held {
		fmt.Fprintln(&p.pending, a...)
		return
	}
	fmt.Fprintln(p.out, a...)
}

func (p *printer) hold() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.held = true
}

func (p *printer) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.held = false
	_, _ = p.pending.WriteTo(p.out)
}

// Package cursor walks forward and backward through a server-generated stream of items.
//
// The cursor keeps only the current batch and the opaque token that produced it. Moving past
// either end of the batch yields a FetchRequest; the server regenerates neighbouring batches
// deterministically from the token, so no navigation history is kept on the client.
package cursor

import (
	"errors"

	"github.com/calcoloergosum/vocagen/item"
	"github.com/samber/mo"
)

var (
	// ErrStale is returned by Apply for a fetch superseded by a newer navigation intent.
	ErrStale = errors.New("fetch result superseded")

	// ErrEmptyBatch is returned by Apply when the server sent no items.
	ErrEmptyBatch = errors.New("empty batch")
)

// Direction of a stream step.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Action is the wire name of the direction.
func (d Direction) Action() string {
	if d == Backward {
		return "prev"
	}
	return "next"
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Move is the outcome of a navigation intent: LocalMove or FetchRequest.
type Move interface {
	local() bool
}

// LocalMove means the cursor moved within its batch to Position.
type LocalMove struct {
	Position int
}

func (LocalMove) local() bool { return true }

// FetchRequest asks the caller to fetch the neighbouring batch and hand the result to Apply.
type FetchRequest struct {
	Direction Direction
	Token     Token

	seq uint64
}

func (FetchRequest) local() bool { return false }

// Cursor is the client side of a bidirectional stream.
// It is not safe for concurrent use; all calls are expected from a single event loop.
type Cursor struct {
	token    Token
	buffer   []*item.Item
	position int

	// seq numbers navigation intents; only the request carrying the latest number may apply.
	seq     uint64
	pending bool
}

// New returns an empty cursor positioned at start.
// A zero start token begins a fresh stream.
func New(start Token) *Cursor {
	return &Cursor{token: start}
}

// Current returns the item under the cursor.
func (c *Cursor) Current() mo.Option[*item.Item] {
	if len(c.buffer) == 0 {
		return mo.None[*item.Item]()
	}
	return mo.Some(c.buffer[c.position])
}

// Advance moves to the next item, inside the batch when possible.
func (c *Cursor) Advance() Move {
	return c.step(Forward)
}

// Retreat moves to the previous item, inside the batch when possible.
func (c *Cursor) Retreat() Move {
	return c.step(Backward)
}

func (c *Cursor) step(d Direction) Move {
	c.seq++
	c.pending = false

	next := c.position + 1
	if d == Backward {
		next = c.position - 1
	}

	if len(c.buffer) > 0 && next >= 0 && next < len(c.buffer) {
		c.position = next
		return LocalMove{Position: next}
	}

	c.pending = true
	return FetchRequest{Direction: d, Token: c.token, seq: c.seq}
}

// Apply replaces the batch with the result of req.
// Forward fetches land on the first item of the new batch, backward fetches on the last.
// A superseded request or an empty batch leaves the cursor untouched.
func (c *Cursor) Apply(req FetchRequest, buffer []*item.Item, token Token) error {
	if !c.pending || req.seq != c.seq {
		return ErrStale
	}

	c.pending = false

	if len(buffer) == 0 {
		return ErrEmptyBatch
	}

	c.buffer = buffer
	c.token = token

	if req.Direction == Backward {
		c.position = len(buffer) - 1
	} else {
		c.position = 0
	}

	return nil
}

// Fail records that req could not be completed. It reports whether req was still current.
// The cursor keeps its batch and token, so repeating the intent re-issues the same request.
func (c *Cursor) Fail(req FetchRequest) bool {
	if !c.pending || req.seq != c.seq {
		return false
	}
	c.pending = false
	return true
}

// Invalidate discards interest in any fetch in flight.
func (c *Cursor) Invalidate() {
	c.seq++
	c.pending = false
}

// Pending reports whether a fetch is in flight.
func (c *Cursor) Pending() bool {
	return c.pending
}

// Token returns the token of the current batch.
func (c *Cursor) Token() Token {
	return c.token
}

// Position returns the index of the current item within the batch.
func (c *Cursor) Position() int {
	return c.position
}

// Len returns the size of the current batch.
func (c *Cursor) Len() int {
	return len(c.buffer)
}

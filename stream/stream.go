// Package stream is the client of the content server that generates item streams.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/network"
	"github.com/calcoloergosum/vocagen/util"
)

// Mode selects between single sentences and words with example sentences.
type Mode string

const (
	ModeSentence Mode = "sentence"
	ModeWord     Mode = "word"
)

// Modes lists every valid mode.
var Modes = []Mode{ModeSentence, ModeWord}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q, expected sentence or word", s)
}

// Order selects how the server orders the sentence stream. The word stream is always random.
type Order string

const (
	OrderRandom Order = "random"
	OrderLength Order = "length"
)

// Orders lists every valid order.
var Orders = []Order{OrderRandom, OrderLength}

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	for _, o := range Orders {
		if string(o) == strings.ToLower(s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown order %q, expected random or length", s)
}

// ErrEmptyResponse is returned when the server answers without any items.
var ErrEmptyResponse = errors.New("server returned no items")

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Request describes one step through a stream.
type Request struct {
	Pair      item.Pair
	Mode      Mode
	Order     Order
	Direction cursor.Direction
	Token     cursor.Token
}

// Client talks to one content server.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the shared network client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// New returns a client for the server rooted at base, e.g. "http://localhost:8002/api".
func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must use http or https", base)
	}

	c := &Client{base: u, http: network.Client}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Base returns the server url.
func (c *Client) Base() string {
	return c.base.String()
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

// resolve makes a server-relative asset url absolute.
func (c *Client) resolve(ref string) string {
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return c.base.ResolveReference(u).String()
}

func (c *Client) resolveItem(i *item.Item) {
	for n, u := range i.AudioURLs {
		i.AudioURLs[n] = c.resolve(u)
	}
	i.ImageURL = c.resolve(i.ImageURL)
	i.ImageURLHorizontal = c.resolve(i.ImageURLHorizontal)
	i.ImageURLVertical = c.resolve(i.ImageURLVertical)
}

type sentenceResponse struct {
	Item     *item.Item   `json:"item"`
	Sentence *item.Item   `json:"sentence"`
	State    cursor.Token `json:"state"`
}

type wordResponse struct {
	Word      string       `json:"word"`
	Sentences []*item.Item `json:"sentences"`
	State     cursor.Token `json:"state"`
}

// Fetch steps through the stream described by req and returns the batch and the token that produced it.
func (c *Client) Fetch(ctx context.Context, req Request) (item.Batch, cursor.Token, error) {
	query := url.Values{"action": {req.Direction.Action()}}
	if !req.Token.IsZero() {
		query.Set("seed", req.Token.String())
	}

	l1, l2 := url.PathEscape(req.Pair.L1), url.PathEscape(req.Pair.L2)

	if req.Mode == ModeWord {
		var resp wordResponse
		if err := c.get(ctx, c.endpoint(query, "word-stream", l1, l2), &resp); err != nil {
			return item.Batch{}, cursor.Token{}, err
		}

		batch := item.Many(resp.Word, resp.Sentences)
		if len(batch.Items()) == 0 {
			return item.Batch{}, cursor.Token{}, fmt.Errorf("word %q: %w", resp.Word, ErrEmptyResponse)
		}

		for _, i := range batch.Items() {
			c.resolveItem(i)
		}

		return batch, resp.State, nil
	}

	order := req.Order
	if order == "" {
		order = OrderRandom
	}

	var resp sentenceResponse
	if err := c.get(ctx, c.endpoint(query, "item-stream", l1, l2, string(order)), &resp); err != nil {
		return item.Batch{}, cursor.Token{}, err
	}

	sentence := resp.Item
	if sentence == nil {
		sentence = resp.Sentence
	}

	if sentence == nil {
		return item.Batch{}, cursor.Token{}, ErrEmptyResponse
	}

	c.resolveItem(sentence)
	return item.Single(sentence), resp.State, nil
}

// Health reports whether the server answers its health probe.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(nil, "health"), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: req.URL.String()}
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	log.Tracef("GET %s", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return nil
}

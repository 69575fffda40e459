package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/util"
)

// Reason tells the server what is wrong with an item.
type Reason string

const (
	ReasonImage    Reason = "image"
	ReasonSentence Reason = "sentence"
)

// Reasons lists every reason the server accepts.
var Reasons = []Reason{ReasonImage, ReasonSentence}

// Describe returns a label for the reason.
func (r Reason) Describe() string {
	switch r {
	case ReasonImage:
		return "The image does not match the sentence"
	case ReasonSentence:
		return "The sentence or its translation is wrong"
	default:
		return string(r)
	}
}

// Report flags an item. The body carries the item's own fields and the reason.
func (c *Client) Report(ctx context.Context, i *item.Item, reason Reason) error {
	fields, err := json.Marshal(i)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := json.Unmarshal(fields, &body); err != nil {
		return err
	}
	body["reason"] = string(reason)

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := c.endpoint(nil, "report")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("report %s: %w", i.Key(), err)
	}
	defer util.Ignore(resp.Body.Close)

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	return nil
}

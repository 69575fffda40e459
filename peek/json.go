package peek

import (
	"encoding/json"
	"io"

	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/stream"
)

// Step is one batch of the stream and the state it was generated from.
type Step struct {
	// State is the token to pass as seed to continue from this step.
	State string `json:"state"`
	// Word is set in word mode.
	Word  string       `json:"word,omitempty"`
	Items []*item.Item `json:"items"`
}

type Output struct {
	Pair      item.Pair    `json:"pair"`
	Mode      stream.Mode  `json:"mode"`
	Order     stream.Order `json:"order,omitempty"`
	Direction string       `json:"direction"`
	Result    []*Step      `json:"result"`
}

func writeJson(out io.Writer, steps []*Step, options *Options) error {
	if steps == nil {
		steps = []*Step{}
	}

	req := options.Request
	output := &Output{
		Pair:      req.Pair,
		Mode:      req.Mode,
		Direction: req.Direction.String(),
		Result:    steps,
	}
	if req.Mode != stream.ModeWord {
		output.Order = req.Order
	}

	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}

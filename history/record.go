package history

import (
	"fmt"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/stream"
)

// Record is the saved state of one stream: where to resume and how much was listened to.
type Record struct {
	Pair  item.Pair    `json:"pair"`
	Mode  stream.Mode  `json:"mode"`
	Order stream.Order `json:"order"`
	Token cursor.Token `json:"token"`

	Batches  int       `json:"batches"`
	Finished int       `json:"finished"`
	Last     string    `json:"last,omitempty"`
	LastAt   time.Time `json:"last_at"`
}

func (r *Record) encode() string {
	return key(r.Pair, r.Mode, r.Order)
}

func key(pair item.Pair, mode stream.Mode, order stream.Order) string {
	if mode == stream.ModeWord {
		// the word stream has a single order
		order = stream.OrderRandom
	}
	return fmt.Sprintf("%s/%s/%s", pair, mode, order)
}

func (r *Record) String() string {
	if r.Mode == stream.ModeWord {
		return fmt.Sprintf("%s (%s)", r.Pair.Describe(), r.Mode)
	}
	return fmt.Sprintf("%s (%s, %s)", r.Pair.Describe(), r.Mode, r.Order)
}

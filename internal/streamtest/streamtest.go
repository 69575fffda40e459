// Package streamtest provides a deterministic in-process content server for tests.
//
// States advance with the same reversible linear congruential generator as the real server,
// so stepping back from a state regenerates exactly the batch that preceded it.
package streamtest

import (
	"fmt"
	"strconv"

	"github.com/calcoloergosum/vocagen/item"
)

const (
	multiplier = 6364136223846793005
	inverse    = 13877824140714322085
	increment  = 1
)

// Next steps the generator forward.
func Next(s uint64) uint64 {
	return multiplier*s + increment
}

// Prev steps the generator backward. Prev(Next(s)) == s for every s.
func Prev(s uint64) uint64 {
	return inverse * (s - increment)
}

// Hex renders a state the way the server does: lowercase hex without prefix.
func Hex(s uint64) string {
	return strconv.FormatUint(s, 16)
}

// Content generates items from states.
type Content struct {
	Pair item.Pair

	// Start is used when a request carries no seed.
	Start uint64

	// WordSize is the number of sentences per word batch.
	WordSize int

	// Targets is the number of target clips per sentence.
	Targets int
}

// Default returns content for en-ko with two target clips and three sentences per word.
func Default() Content {
	return Content{
		Pair:     item.Pair{L1: "en", L2: "ko"},
		Start:    4771436933726426000,
		WordSize: 3,
		Targets:  2,
	}
}

// Seed parses the seed query parameter, falling back to Start.
func (c Content) Seed(seed string) (uint64, error) {
	if seed == "" {
		return c.Start, nil
	}
	return strconv.ParseUint(seed, 16, 64)
}

// Step returns the state a random-order request lands on.
func (c Content) Step(s uint64, action string) uint64 {
	if action == "prev" {
		return Prev(s)
	}
	return Next(s)
}

// StepLength returns the state a length-order request lands on.
func (c Content) StepLength(s uint64, action string) uint64 {
	if action == "prev" {
		return s - 1
	}
	return s + 1
}

// Sentence is the item generated for state s.
func (c Content) Sentence(s uint64) *item.Item {
	return c.sentence(Hex(s))
}

func (c Content) sentence(id string) *item.Item {
	dir := fmt.Sprintf("/assets/%s/%s", c.Pair.L1, c.Pair.L2)

	urls := []string{fmt.Sprintf("%s/audio/%s_0.mp3", dir, id)}
	for i := 0; i < c.Targets; i++ {
		urls = append(urls, fmt.Sprintf("%s/audio/%s-t_%d.mp3", dir, id, i))
	}

	return &item.Item{
		IDL1:               id,
		IDL2:               id + "-t",
		L1:                 c.Pair.L1,
		L2:                 c.Pair.L2,
		Sentence1:          "native " + id,
		Sentence2:          "target " + id,
		AudioURLs:          urls,
		ImageURLHorizontal: fmt.Sprintf("%s/image-horizontal/%s.png", dir, id),
		ImageURLVertical:   fmt.Sprintf("%s/image-vertical/%s.png", dir, id),
	}
}

// Word is the word batch generated for state s.
func (c Content) Word(s uint64) (string, []*item.Item) {
	word := "word-" + Hex(s)

	items := make([]*item.Item, 0, c.WordSize)
	for i := 0; i < c.WordSize; i++ {
		items = append(items, c.sentence(fmt.Sprintf("%s.%d", Hex(s), i)))
	}

	return word, items
}

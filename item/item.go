// Package item defines the learning units streamed by the content server and the audio clips they carry.
package item

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// ErrNoClips is returned when an item carries no audio at all.
var ErrNoClips = errors.New("item has no audio clips")

// Clip is an absolute URL of one playable audio unit.
type Clip string

func (c Clip) String() string {
	return string(c)
}

// ClipSet holds the clips belonging to one item.
// Native is absent when the server sent a single clip or the learner hides the native language.
type ClipSet struct {
	Native  mo.Option[Clip]
	Targets []Clip
}

// WithoutNative returns a copy of the set with the native clip dropped.
func (c ClipSet) WithoutNative() ClipSet {
	return ClipSet{Native: mo.None[Clip](), Targets: c.Targets}
}

// Len returns the number of distinct clips in the set.
func (c ClipSet) Len() int {
	if c.Native.IsPresent() {
		return len(c.Targets) + 1
	}
	return len(c.Targets)
}

// Item is a sentence pair: the same sentence in the learner's native language and in the target language.
type Item struct {
	ID        string   `json:"id,omitempty" jsonschema:"description=Legacy identifier"`
	IDL1      string   `json:"idL1,omitempty"`
	IDL2      string   `json:"idL2,omitempty"`
	L1        string   `json:"l1"`
	L2        string   `json:"l2"`
	Sentence1 string   `json:"sentence1" jsonschema:"description=Sentence in the native language"`
	Sentence2 string   `json:"sentence2" jsonschema:"description=Sentence in the target language"`
	AudioURLs []string `json:"audioUrls" jsonschema:"description=First URL is the native clip and the rest are target clips"`

	ImageURL           string `json:"imageUrl,omitempty"`
	ImageURLHorizontal string `json:"imageUrlHorizontal,omitempty"`
	ImageURLVertical   string `json:"imageUrlVertical,omitempty"`
	ImageIsRandom      bool   `json:"imageIsRandom,omitempty"`
}

// Key identifies the item within its language pair.
func (i *Item) Key() string {
	switch {
	case i.IDL1 != "" || i.IDL2 != "":
		return i.IDL1 + "/" + i.IDL2
	case i.ID != "":
		return i.ID
	default:
		return i.Sentence2
	}
}

// Image returns the preferred image URL, if any.
func (i *Item) Image() mo.Option[string] {
	for _, u := range []string{i.ImageURLHorizontal, i.ImageURL, i.ImageURLVertical} {
		if u != "" {
			return mo.Some(u)
		}
	}
	return mo.None[string]()
}

// Clips derives the clip set of the item.
// The first URL is the native clip when at least two URLs exist; a lone URL is played as a target.
func (i *Item) Clips() (ClipSet, error) {
	switch len(i.AudioURLs) {
	case 0:
		return ClipSet{}, fmt.Errorf("%s: %w", i.Key(), ErrNoClips)
	case 1:
		return ClipSet{Native: mo.None[Clip](), Targets: []Clip{Clip(i.AudioURLs[0])}}, nil
	}

	targets := make([]Clip, 0, len(i.AudioURLs)-1)
	for _, u := range i.AudioURLs[1:] {
		targets = append(targets, Clip(u))
	}

	return ClipSet{Native: mo.Some(Clip(i.AudioURLs[0])), Targets: targets}, nil
}

func (i *Item) String() string {
	return fmt.Sprintf("%s | %s", i.Sentence1, i.Sentence2)
}

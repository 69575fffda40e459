package item

// Batch is what one stream request yields: a single sentence, or a word with its example sentences.
type Batch struct {
	word  string
	items []*Item
	many  bool
}

// Single wraps one sentence pair.
func Single(i *Item) Batch {
	return Batch{items: []*Item{i}}
}

// Many wraps a word and its ordered example sentences.
func Many(word string, items []*Item) Batch {
	return Batch{word: word, items: items, many: true}
}

// IsWord reports whether the batch came from the word stream.
func (b Batch) IsWord() bool {
	return b.many
}

// Word returns the word of a word batch and an empty string otherwise.
func (b Batch) Word() string {
	return b.word
}

// Items normalizes the batch to an ordered sequence of sentence pairs.
func (b Batch) Items() []*Item {
	out := make([]*Item, 0, len(b.items))
	for _, i := range b.items {
		if i != nil {
			out = append(out, i)
		}
	}
	return out
}

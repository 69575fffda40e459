// Package history saves where each stream was left and counts the items listened to.
package history

import (
	"sort"
	"time"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/item"
	keys "github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved record keyed by stream.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the records, most recently used first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastAt.After(records[j].LastAt)
	})

	return records, nil
}

// Resume returns the token a stream was left at.
func Resume(pair item.Pair, mode stream.Mode, order stream.Order) (mo.Option[cursor.Token], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[cursor.Token](), err
	}

	record, ok := saved[key(pair, mode, order)]
	if !ok || record.Token.IsZero() {
		return mo.None[cursor.Token](), nil
	}

	return mo.Some(record.Token), nil
}

func update(pair item.Pair, mode stream.Mode, order stream.Order, change func(*Record)) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	k := key(pair, mode, order)
	record, ok := saved[k]
	if !ok {
		record = &Record{Pair: pair, Mode: mode, Order: order}
		saved[k] = record
	}

	change(record)
	record.LastAt = time.Now()

	return cacher.Set(saved)
}

// Visit saves token as the resume point of the stream.
func Visit(pair item.Pair, mode stream.Mode, order stream.Order, token cursor.Token) error {
	return update(pair, mode, order, func(r *Record) {
		r.Token = token
		r.Batches++
	})
}

// Finish counts a fully played item.
func Finish(pair item.Pair, mode stream.Mode, order stream.Order, i *item.Item) error {
	return update(pair, mode, order, func(r *Record) {
		r.Finished++
		r.Last = i.Sentence2
	})
}

// Remove deletes the record of a stream.
func Remove(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher.Set(saved)
}

// Journal records the progress of one feed when history saving is enabled.
type Journal struct {
	Mode  stream.Mode
	Order stream.Order
}

// Visited implements feed.Journal.
func (j Journal) Visited(pair item.Pair, mode stream.Mode, order stream.Order, token cursor.Token) {
	if !viper.GetBool(keys.HistorySave) {
		return
	}
	if err := Visit(pair, mode, order, token); err != nil {
		log.Warnf("saving history: %s", err)
	}
}

// Finished implements feed.Journal.
func (j Journal) Finished(pair item.Pair, i *item.Item) {
	if !viper.GetBool(keys.HistorySave) {
		return
	}
	if err := Finish(pair, j.Mode, j.Order, i); err != nil {
		log.Warnf("saving history: %s", err)
	}
}

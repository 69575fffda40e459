package stream

import (
	"context"
	"time"

	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/metafates/gache"
)

// pairsCacher keeps the supported pairs of each server for a day.
var pairsCacher = gache.New[map[string][]item.Pair](&gache.Options{
	Path:       where.Pairs(),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

// CachedPairs returns the pairs last fetched from this server, if still fresh.
func (c *Client) CachedPairs() ([]item.Pair, bool) {
	cached, expired, err := pairsCacher.Get()
	if err != nil || expired || cached == nil {
		return nil, false
	}

	pairs, ok := cached[c.Base()]
	return pairs, ok && len(pairs) > 0
}

// Pairs asks the server which language pairs it supports.
func (c *Client) Pairs(ctx context.Context) ([]item.Pair, error) {
	if pairs, ok := c.CachedPairs(); ok {
		return pairs, nil
	}

	var resp struct {
		Pairs []item.Pair `json:"pairs"`
	}

	if err := c.get(ctx, c.endpoint(nil, "getSupportedLanguagePairs"), &resp); err != nil {
		return nil, err
	}

	if len(resp.Pairs) == 0 {
		return nil, ErrEmptyResponse
	}

	cached, expired, err := pairsCacher.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string][]item.Pair)
	}
	cached[c.Base()] = resp.Pairs

	if err := pairsCacher.Set(cached); err != nil {
		log.Warnf("caching supported pairs: %s", err)
	}

	return resp.Pairs, nil
}

// PairsOrKnown is Pairs falling back to the built-in list when the server cannot be asked.
func (c *Client) PairsOrKnown(ctx context.Context) []item.Pair {
	pairs, err := c.Pairs(ctx)
	if err != nil {
		log.Warnf("listing supported pairs: %s", err)
		return item.KnownPairs
	}
	return pairs
}

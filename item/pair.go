package item

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Pair is a language pair: L1 is the learner's native language, L2 the language being studied.
type Pair struct {
	L1 string `json:"l1"`
	L2 string `json:"l2"`
}

// ParsePair reads the "L1-L2" form, e.g. "en-ko".
func ParsePair(s string) (Pair, error) {
	l1, l2, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || l1 == "" || l2 == "" || strings.Contains(l2, "-") {
		return Pair{}, fmt.Errorf("invalid language pair %q, expected the form L1-L2 (e.g. en-ko)", s)
	}
	return Pair{L1: strings.ToLower(l1), L2: strings.ToLower(l2)}, nil
}

func (p Pair) String() string {
	return p.L1 + "-" + p.L2
}

// IsZero reports whether the pair is unset.
func (p Pair) IsZero() bool {
	return p.L1 == "" && p.L2 == ""
}

// Describe renders the pair for humans, e.g. "Korean for English speakers".
func (p Pair) Describe() string {
	return fmt.Sprintf("%s for %s speakers", LanguageName(p.L2), LanguageName(p.L1))
}

var languages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ja": "Japanese",
	"ko": "Korean",
	"ru": "Russian",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"zh": "Chinese",
}

// LanguageName returns the English name of an ISO 639-1 code, or the code itself when unknown.
func LanguageName(code string) string {
	if name, ok := languages[code]; ok {
		return name
	}
	return code
}

// KnownPairs are the pairs offered when the server cannot be asked.
var KnownPairs = []Pair{
	{L1: "en", L2: "hi"},
	{L1: "en", L2: "ko"},
	{L1: "en", L2: "ja"},
	{L1: "en", L2: "ru"},
	{L1: "ja", L2: "en"},
}

// FindPairs fuzzy-matches query against the codes and language names of pairs.
// Exact "L1-L2" matches come first; the remaining matches keep their original order.
func FindPairs(query string, pairs []Pair) []Pair {
	query = strings.TrimSpace(query)
	if query == "" {
		return pairs
	}

	type scored struct {
		pair  Pair
		rank  int
		index int
	}

	var found []scored
	for i, p := range pairs {
		if strings.EqualFold(p.String(), query) {
			found = append(found, scored{pair: p, rank: -1, index: i})
			continue
		}

		ranks := lo.FilterMap([]string{p.String(), p.Describe()}, func(target string, _ int) (int, bool) {
			r := fuzzy.RankMatchFold(query, target)
			return r, r >= 0
		})

		if len(ranks) > 0 {
			found = append(found, scored{pair: p, rank: lo.Min(ranks), index: i})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].rank != found[j].rank {
			return found[i].rank < found[j].rank
		}
		return found[i].index < found[j].index
	})

	return lo.Map(found, func(s scored, _ int) Pair {
		return s.pair
	})
}

package matcher

import (
	"sort"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

const maxSuggestions = 3

// suggester ranks indexed keys close to an unmatched key. Suggestions only feed
// diagnostics; they never turn an unmatched row into a match.
type suggester struct {
	candidates []string
}

func newSuggester(keys []contract.Key) *suggester {
	s := &suggester{candidates: make([]string, 0, len(keys))}
	for _, k := range keys {
		s.candidates = append(s.candidates, k.String())
	}
	return s
}

type ranked struct {
	target   string
	distance int
}

func (s *suggester) suggest(key contract.Key) []string {
	source := key.String()
	limit := utf8.RuneCountInString(source) / 3
	if limit < 2 {
		limit = 2
	}

	var hits []ranked
	for _, c := range s.candidates {
		d := fuzzy.LevenshteinDistance(source, c)
		if d <= limit {
			hits = append(hits, ranked{target: c, distance: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].target < hits[j].target
	})

	if len(hits) > maxSuggestions {
		hits = hits[:maxSuggestions]
	}
	if len(hits) == 0 {
		return nil
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.target
	}
	return out
}

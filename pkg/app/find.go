package app

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"tableflip.dev/tabtree/pkg/tabs"
)

// Match is one tab found by Find.
type Match struct {
	tabs.Location
	Title    string `json:"title"`
	URL      string `json:"url"`
	Distance int    `json:"distance"`
}

// Find ranks every saved tab whose title or url fuzzily contains query. When
// nothing matches fuzzily it falls back to a plain substring search.
func (s *Service) Find(query string) []Match {
	return Find(s.State(), query)
}

// Find searches c. An empty query matches nothing.
func Find(c *tabs.Collection, query string) []Match {
	trimmed := strings.TrimSpace(query)
	if c == nil || trimmed == "" {
		return nil
	}
	var (
		locs   []tabs.Location
		found  []tabs.Tab
		labels []string
	)
	c.Walk(func(loc tabs.Location, t tabs.Tab) bool {
		locs = append(locs, loc)
		found = append(found, t)
		labels = append(labels, t.Title+" "+t.URL)
		return true
	})

	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	sort.Stable(ranks)
	matches := make([]Match, 0, len(ranks))
	for _, rank := range ranks {
		i := rank.OriginalIndex
		matches = append(matches, match(locs[i], found[i], rank.Distance))
	}
	if len(matches) > 0 {
		return matches
	}

	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			matches = append(matches, match(locs[i], found[i], -1))
		}
	}
	return matches
}

func match(loc tabs.Location, t tabs.Tab, distance int) Match {
	return Match{Location: loc, Title: t.Title, URL: t.URL, Distance: distance}
}

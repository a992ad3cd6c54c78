// Package search resolves free-text queries against the track catalog by
// token overlap between the query and the "<author> - <title>" title parts.
package search

import (
	"regexp"
	"strings"

	"github.com/DeSent79/miku-bot/internal/store"
)

var titlePattern = regexp.MustCompile(`(.*) - (.*)`)

// Match pairs a catalog track with its score for one query. Scores are
// transient and never persisted.
type Match struct {
	Track *store.Track
	Score int
}

// Best scores every track against the query and returns the highest-scored
// one. Titles that do not parse as "<author> - <title>" stay eligible at
// score zero. Returns nil for an empty catalog. Tie order is unspecified.
func Best(tracks []store.Track, query string) *Match {
	if len(tracks) == 0 {
		return nil
	}

	queryWords := tokenSet(normalize(query))

	best := &Match{Track: &tracks[0], Score: score(tracks[0].Title, queryWords)}
	for i := 1; i < len(tracks); i++ {
		if s := score(tracks[i].Title, queryWords); s > best.Score {
			best = &Match{Track: &tracks[i], Score: s}
		}
	}

	return best
}

// score counts how many of the track's title words appear in the query.
// Repeated title words count once per occurrence.
func score(title string, queryWords map[string]struct{}) int {
	w := 0
	for _, word := range titleWords(title) {
		if _, ok := queryWords[word]; ok {
			w++
		}
	}
	return w
}

// titleWords returns the author and title segments split into words, or nil
// when the title does not match the "<author> - <title>" pattern.
func titleWords(title string) []string {
	m := titlePattern.FindStringSubmatch(normalize(title))
	if m == nil {
		return nil
	}

	words := strings.Fields(m[1])
	return append(words, strings.Fields(m[2])...)
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "(", "")
	return strings.ReplaceAll(s, ")", "")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		set[word] = struct{}{}
	}
	return set
}

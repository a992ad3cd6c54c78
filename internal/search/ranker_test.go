package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeSent79/miku-bot/internal/store"
)

func catalog(titles ...string) []store.Track {
	tracks := make([]store.Track, 0, len(titles))
	for _, title := range titles {
		tracks = append(tracks, store.Track{Title: title})
	}
	return tracks
}

func TestBestEmptyCatalog(t *testing.T) {
	assert.Nil(t, Best(nil, "anything"))
	assert.Nil(t, Best([]store.Track{}, "anything"))
}

func TestBestPicksHighestOverlap(t *testing.T) {
	tracks := catalog("DJ A - Song One", "DJ B - Song Two")

	match := Best(tracks, "song one")

	require.NotNil(t, match)
	assert.Equal(t, "DJ A - Song One", match.Track.Title)
	assert.Equal(t, 2, match.Score)
}

func TestBestScoreIsMaximal(t *testing.T) {
	tracks := catalog(
		"DJ A - Song One",
		"DJ B - Song Two",
		"Someone Else - Another Song",
		"Broken Title Without Dash",
	)

	queries := []string{"song one", "dj b", "another song else", "nothing matches here", ""}

	for _, query := range queries {
		match := Best(tracks, query)
		require.NotNil(t, match)

		queryWords := tokenSet(normalize(query))
		for _, track := range tracks {
			assert.GreaterOrEqual(t, match.Score, score(track.Title, queryWords),
				"query %q: %q outranks returned match", query, track.Title)
		}
	}
}

func TestBestNormalizesCaseAndParens(t *testing.T) {
	tracks := catalog("Some Artist - Great Tune (Remix)", "Other - Thing")

	match := Best(tracks, "GREAT tune remix")

	require.NotNil(t, match)
	assert.Equal(t, "Some Artist - Great Tune (Remix)", match.Track.Title)
	assert.Equal(t, 3, match.Score)
}

func TestUnparsableTitleStaysEligible(t *testing.T) {
	tracks := catalog("no dash separator here")

	match := Best(tracks, "no dash separator here")

	require.NotNil(t, match)
	assert.Equal(t, 0, match.Score)
	assert.Equal(t, "no dash separator here", match.Track.Title)
}

func TestDuplicateTitleWordsCountSeparately(t *testing.T) {
	tracks := catalog("La La - La Land", "Other - Song")

	match := Best(tracks, "la land")

	require.NotNil(t, match)
	assert.Equal(t, "La La - La Land", match.Track.Title)
	// "la" appears three times across author and title, "land" once.
	assert.Equal(t, 4, match.Score)
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t, []string{"dj", "a", "song", "one"}, titleWords("DJ A - Song One"))
	assert.Nil(t, titleWords("no separator"))
}

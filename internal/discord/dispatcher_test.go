package discord

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayQuery(t *testing.T) {
	query, ok := playQuery("!play dj a song one")
	assert.True(t, ok)
	assert.Equal(t, "dj a song one", query)

	_, ok = playQuery("!play")
	assert.False(t, ok)

	query, ok = playQuery("!play ")
	assert.True(t, ok)
	assert.Equal(t, "", query)
}

func TestRollBound(t *testing.T) {
	assert.Equal(t, 6, rollBound("!roll 6"))
	assert.Equal(t, 123456, rollBound("!roll 123456"))

	// Malformed arguments fall back to the default instead of rejecting.
	assert.Equal(t, defaultRollBound, rollBound("!roll"))
	assert.Equal(t, defaultRollBound, rollBound("!roll abc"))
	assert.Equal(t, defaultRollBound, rollBound("!roll 0"))

	// The bound pattern is not end-anchored: extra digits are truncated.
	assert.Equal(t, 123456, rollBound("!roll 1234567"))
}

func TestRollResultExcludesBound(t *testing.T) {
	bound := rollBound("!roll 6")
	for i := 0; i < 1000; i++ {
		n := rand.Intn(bound)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)
	}
}

func TestRatePattern(t *testing.T) {
	assert.True(t, ratePattern.MatchString("!+1"))
	assert.True(t, ratePattern.MatchString("!-1"))
	assert.False(t, ratePattern.MatchString("!+2"))
	assert.False(t, ratePattern.MatchString("+1"))
}

func TestUploadPattern(t *testing.T) {
	assert.True(t, uploadPattern.MatchString("Some Artist - Some Track"))
	assert.False(t, uploadPattern.MatchString("no separator here"))
}

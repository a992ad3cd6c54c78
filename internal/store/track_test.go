package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeDislikeMutualExclusion(t *testing.T) {
	track := &Track{}

	track.Like("u1")
	assert.Equal(t, []string{"u1"}, track.Likes)
	assert.Empty(t, track.Dislikes)

	track.Dislike("u1")
	assert.Empty(t, track.Likes)
	assert.Equal(t, []string{"u1"}, track.Dislikes)

	track.Like("u1")
	assert.Equal(t, []string{"u1"}, track.Likes)
	assert.Empty(t, track.Dislikes)
}

func TestLikeIsIdempotent(t *testing.T) {
	track := &Track{}

	track.Like("u1")
	track.Like("u1")

	assert.Equal(t, []string{"u1"}, track.Likes)
}

func TestRatingKeepsOtherUsers(t *testing.T) {
	track := &Track{Likes: []string{"u1", "u2"}, Dislikes: []string{"u3"}}

	track.Dislike("u2")

	assert.Equal(t, []string{"u1"}, track.Likes)
	assert.ElementsMatch(t, []string{"u2", "u3"}, track.Dislikes)
}

func TestSettingsMembership(t *testing.T) {
	settings := &Settings{
		Whitelist:           []string{"g1"},
		MusicChannels:       []string{"c1"},
		MusicUploadChannels: []string{"c2"},
	}

	assert.True(t, settings.IsWhitelisted("g1"))
	assert.False(t, settings.IsWhitelisted("g2"))
	assert.True(t, settings.IsMusicChannel("c1"))
	assert.False(t, settings.IsMusicChannel("c2"))
	assert.True(t, settings.IsUploadChannel("c2"))
	assert.False(t, settings.IsUploadChannel("c1"))
}

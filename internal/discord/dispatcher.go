package discord

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const defaultRollBound = 100

var (
	playPattern   = regexp.MustCompile(`^!play (.*)`)
	ratePattern   = regexp.MustCompile(`^![+\-]1`)
	rollPattern   = regexp.MustCompile(`^!roll ([0-9]{1,6})`)
	uploadPattern = regexp.MustCompile(`(.*) - (.*)`)
)

// dispatch classifies one inbound message and runs at most one command
// handler for it.
func (c *Client) dispatch(m *discordgo.MessageCreate, isMusic, isUpload bool) {
	ctx := context.Background()

	switch {
	case isMusic && strings.HasPrefix(m.Content, "!play"):
		c.handlePlay(ctx, m)
	case isMusic && strings.HasPrefix(m.Content, "!stop"):
		c.handleStop(ctx, m)
	case isMusic && strings.HasPrefix(m.Content, "!skip"):
		c.handleSkip(ctx, m)
	case isMusic && strings.HasPrefix(m.Content, "!random"):
		c.handleRandom(ctx, m)
	case isMusic && strings.HasPrefix(m.Content, "!count"):
		c.handleCount(ctx, m)
	case isMusic && strings.HasPrefix(m.Content, "!roll"):
		c.handleRoll(m)
	case isMusic && ratePattern.MatchString(m.Content):
		c.handleRate(ctx, m)
	case isUpload && uploadPattern.MatchString(m.Content):
		c.handleUpload(ctx, m)
	}
}

// playQuery extracts the free-text query from a !play command.
func playQuery(content string) (string, bool) {
	m := playPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// rollBound parses the optional upper bound of a !roll command. Anything
// that does not match the 1-6 digit pattern falls back to the default.
func rollBound(content string) int {
	m := rollPattern.FindStringSubmatch(content)
	if m == nil {
		return defaultRollBound
	}

	bound, err := strconv.Atoi(m[1])
	if err != nil || bound <= 0 {
		return defaultRollBound
	}

	return bound
}

package discord

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/search"
	"github.com/DeSent79/miku-bot/internal/session"
	"github.com/DeSent79/miku-bot/internal/store"
)

const (
	msgNothingFound   = "Nothing was found 🕸"
	msgConnectToVoice = "Connect to the voice channel 🤡"
	msgCantStop       = "Can't stop 😎"
	msgNoQueue        = "There is no queue, so you can't skip 👽"
)

func (c *Client) handlePlay(ctx context.Context, m *discordgo.MessageCreate) {
	query, ok := playQuery(m.Content)
	if !ok {
		return
	}

	voiceChannel, err := c.userVoiceChannel(m.GuildID, m.Author.ID)
	if err != nil {
		c.reply(m.Message, msgConnectToVoice)
		return
	}

	tracks, err := c.tracks.FindAll(ctx)
	if err != nil {
		c.reportStoreError(m.Message, "search", err)
		return
	}

	match := search.Best(tracks, query)
	if match == nil {
		c.reply(m.Message, msgNothingFound)
		return
	}

	sess := c.sessions.Get(m.GuildID)
	if err := sess.Play(ctx, voiceChannel, match.Track, c.notifier(m.ChannelID)); err != nil {
		c.reportStoreError(m.Message, "play", err)
		return
	}

	c.react(m.Message, reactSuccess)
}

func (c *Client) handleStop(ctx context.Context, m *discordgo.MessageCreate) {
	sess := c.sessions.Get(m.GuildID)

	if err := sess.Stop(ctx); err != nil {
		if errors.Is(err, session.ErrAlreadyIdle) {
			c.reply(m.Message, msgCantStop)
			return
		}
		c.reportStoreError(m.Message, "stop", err)
		return
	}

	c.react(m.Message, reactSuccess)
}

func (c *Client) handleSkip(ctx context.Context, m *discordgo.MessageCreate) {
	sess := c.sessions.Get(m.GuildID)

	if err := sess.Skip(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrNoQueue):
			c.reply(m.Message, msgNoQueue)
		case errors.Is(err, session.ErrEmptyCatalog):
			c.reply(m.Message, msgNothingFound)
		default:
			c.reportStoreError(m.Message, "skip", err)
		}
	}
}

func (c *Client) handleRandom(ctx context.Context, m *discordgo.MessageCreate) {
	sess := c.sessions.Get(m.GuildID)

	// Toggling an active random session off is a plain stop and does not
	// require voice presence.
	if sess.State() == session.StateRandomPlaying {
		if err := sess.Stop(ctx); err != nil && !errors.Is(err, session.ErrAlreadyIdle) {
			c.reportStoreError(m.Message, "random", err)
			return
		}
		c.react(m.Message, reactSuccess)
		return
	}

	voiceChannel, err := c.userVoiceChannel(m.GuildID, m.Author.ID)
	if err != nil {
		c.reply(m.Message, msgConnectToVoice)
		return
	}

	if _, err := sess.ToggleRandom(ctx, voiceChannel, c.notifier(m.ChannelID)); err != nil {
		if errors.Is(err, session.ErrEmptyCatalog) {
			c.reply(m.Message, msgNothingFound)
			return
		}
		c.reportStoreError(m.Message, "random", err)
		return
	}

	c.react(m.Message, reactSuccess)
}

func (c *Client) handleCount(ctx context.Context, m *discordgo.MessageCreate) {
	count, err := c.tracks.Count(ctx)
	if err != nil {
		c.reportStoreError(m.Message, "count", err)
		return
	}

	c.react(m.Message, reactSuccess)
	c.reply(m.Message, fmt.Sprintf("Currently there are %d tracks", count))
}

func (c *Client) handleRoll(m *discordgo.MessageCreate) {
	bound := rollBound(m.Content)

	c.react(m.Message, reactSuccess)
	c.reply(m.Message, fmt.Sprintf("🎲: %d", rand.Intn(bound)))
}

func (c *Client) handleRate(ctx context.Context, m *discordgo.MessageCreate) {
	upvote := strings.HasPrefix(m.Content, "!+1")

	sess := c.sessions.Get(m.GuildID)
	if err := sess.Rate(ctx, m.Author.ID, upvote); err != nil {
		if errors.Is(err, session.ErrNotPlaying) {
			c.react(m.Message, reactNotPlaying)
			return
		}
		c.reportStoreError(m.Message, "rate", err)
		return
	}

	if upvote {
		c.react(m.Message, reactLike)
	} else {
		c.react(m.Message, reactDislike)
	}
}

func (c *Client) userVoiceChannel(guildID, userID string) (string, error) {
	vs, err := c.Session.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", errors.New("user is not in a voice channel")
	}

	return vs.ChannelID, nil
}

// reportStoreError handles a failed command without taking the process
// down: the user gets a failure reaction, the error goes to the log.
func (c *Client) reportStoreError(m *discordgo.Message, command string, err error) {
	c.react(m, reactFailure)

	if errors.Is(err, store.ErrUnavailable) {
		logger.Error("store operation failed",
			logger.String("command", command), logger.ErrorField(err))
		return
	}

	logger.Error("command failed",
		logger.String("command", command), logger.ErrorField(err))
}

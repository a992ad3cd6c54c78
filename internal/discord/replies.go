package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/session"
)

const (
	reactSuccess    = "✔️"
	reactFailure    = "❌"
	reactLike       = "👍"
	reactDislike    = "👎"
	reactNotPlaying = "🖕"
)

const cleanupDelay = 60 * time.Second

// messenger is the outbound message surface of the gateway, split off so
// command handlers can be exercised against a recording fake.
type messenger interface {
	React(channelID, messageID, emoji string)
	Reply(m *discordgo.Message, text string) *discordgo.Message
	Send(channelID, text string)
	DeleteLater(channelID, messageID string)
}

// gatewayMessenger sends through the live discordgo session.
type gatewayMessenger struct {
	session *discordgo.Session
}

func (g *gatewayMessenger) React(channelID, messageID, emoji string) {
	if err := g.session.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		logger.Warn("failed to add reaction",
			logger.String("emoji", emoji), logger.ErrorField(err))
	}
}

func (g *gatewayMessenger) Reply(m *discordgo.Message, text string) *discordgo.Message {
	sent, err := g.session.ChannelMessageSendReply(m.ChannelID, text, m.Reference())
	if err != nil {
		logger.Warn("failed to send reply", logger.ErrorField(err))
		return nil
	}
	return sent
}

func (g *gatewayMessenger) Send(channelID, text string) {
	if _, err := g.session.ChannelMessageSend(channelID, text); err != nil {
		logger.Warn("failed to send message",
			logger.String("channel", channelID), logger.ErrorField(err))
	}
}

// DeleteLater removes a message after the cleanup delay, used to keep
// upload channels tidy.
func (g *gatewayMessenger) DeleteLater(channelID, messageID string) {
	time.AfterFunc(cleanupDelay, func() {
		if err := g.session.ChannelMessageDelete(channelID, messageID); err != nil {
			logger.Warn("failed to delete message",
				logger.String("message", messageID), logger.ErrorField(err))
		}
	})
}

func (c *Client) react(m *discordgo.Message, emoji string) {
	c.msg.React(m.ChannelID, m.ID, emoji)
}

func (c *Client) reply(m *discordgo.Message, text string) *discordgo.Message {
	return c.msg.Reply(m, text)
}

func (c *Client) send(channelID, text string) {
	c.msg.Send(channelID, text)
}

func (c *Client) deleteLater(channelID, messageID string) {
	c.msg.DeleteLater(channelID, messageID)
}

// notifier returns the announcement sink for playback started from the
// given text channel.
func (c *Client) notifier(channelID string) session.Notifier {
	return func(message string) {
		c.send(channelID, message)
	}
}

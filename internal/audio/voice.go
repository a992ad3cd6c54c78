// Package audio streams track files into Discord voice channels.
package audio

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/DeSent79/miku-bot/internal/session"
)

// Voice joins guild voice channels over the live Discord session. It is the
// production implementation of session.Voice.
type Voice struct {
	session *discordgo.Session
}

func NewVoice(s *discordgo.Session) *Voice {
	return &Voice{session: s}
}

func (v *Voice) Join(guildID, channelID string) (session.Conn, error) {
	vc, err := v.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	return newConn(vc), nil
}

package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is the singleton document gating which guilds and channels the
// bot listens to.
type Settings struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Whitelist           []string           `bson:"whitelist"`
	MusicChannels       []string           `bson:"musicChannels"`
	MusicUploadChannels []string           `bson:"musicUploadChannels"`
}

func (s *Settings) IsWhitelisted(guildID string) bool {
	return contains(s.Whitelist, guildID)
}

func (s *Settings) IsMusicChannel(channelID string) bool {
	return contains(s.MusicChannels, channelID)
}

func (s *Settings) IsUploadChannel(channelID string) bool {
	return contains(s.MusicUploadChannels, channelID)
}

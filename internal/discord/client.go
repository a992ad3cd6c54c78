// Package discord connects the bot to the chat gateway and routes inbound
// messages to playback, search and catalog operations.
package discord

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/DeSent79/miku-bot/internal/audio"
	"github.com/DeSent79/miku-bot/internal/config"
	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/session"
	"github.com/DeSent79/miku-bot/internal/store"
)

type Client struct {
	Session *discordgo.Session

	cfg          *config.Config
	tracks       store.TrackRepository
	settingsRepo store.SettingsRepository
	sessions     *session.Registry
	httpClient   *http.Client
	msg          messenger

	mu       sync.RWMutex
	settings *store.Settings
}

func NewClient(cfg *config.Config, tracks store.TrackRepository, settingsRepo store.SettingsRepository) (*Client, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	client := &Client{
		Session:      dg,
		cfg:          cfg,
		tracks:       tracks,
		settingsRepo: settingsRepo,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		msg:          &gatewayMessenger{session: dg},
	}

	client.sessions = session.NewRegistry(tracks, audio.NewVoice(dg))

	dg.AddHandler(client.handleReady)
	dg.AddHandler(client.handleMessageCreate)

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	return client, nil
}

// Connect loads the settings singleton and opens the gateway connection.
// Messages arriving before settings are in place are ignored.
func (c *Client) Connect(ctx context.Context) error {
	settings, err := c.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	if err := c.Session.Open(); err != nil {
		return fmt.Errorf("failed to connect to Discord: %w", err)
	}

	return nil
}

func (c *Client) Settings() *store.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *Client) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info("logged in", logger.String("user", r.User.Username))
}

func (c *Client) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	settings := c.Settings()
	if settings == nil {
		return
	}

	isMusic := settings.IsMusicChannel(m.ChannelID)
	isUpload := settings.IsUploadChannel(m.ChannelID)
	if !isMusic && !isUpload {
		return
	}

	if m.GuildID == "" || !settings.IsWhitelisted(m.GuildID) {
		return
	}

	c.dispatch(m, isMusic, isUpload)
}

// Shutdown implements the shutdown component contract: stop every playback
// session and close the gateway connection.
func (c *Client) Shutdown(ctx context.Context) error {
	c.sessions.StopAll()
	return c.Session.Close()
}

func (c *Client) Name() string {
	return "discord"
}

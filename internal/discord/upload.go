package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/store"
)

// handleUpload registers a new track from a message shaped like
// "<author> - <title>" with an audio attachment. The trigger message is
// cleaned up after a delay whatever the outcome.
func (c *Client) handleUpload(ctx context.Context, m *discordgo.MessageCreate) {
	title := m.Content
	if title == "" || len(m.Attachments) == 0 {
		return
	}

	existing, err := c.tracks.FindByTitle(ctx, title)
	if err != nil {
		c.reportStoreError(m.Message, "upload", err)
		c.deleteLater(m.ChannelID, m.ID)
		return
	}

	if existing != nil {
		c.react(m.Message, reactFailure)
		c.deleteLater(m.ChannelID, m.ID)
		if notice := c.reply(m.Message, fmt.Sprintf("Track `%s` is alredy known 😬", title)); notice != nil {
			c.deleteLater(notice.ChannelID, notice.ID)
		}
		return
	}

	attachment := m.Attachments[0]
	fname := filepath.Join(c.cfg.TracksDir, uuid.NewString()+filepath.Ext(attachment.Filename))

	if err := c.downloadAttachment(ctx, attachment.URL, fname); err != nil {
		logger.Error("failed to download attachment",
			logger.String("title", title), logger.ErrorField(err))
		c.react(m.Message, reactFailure)
		c.deleteLater(m.ChannelID, m.ID)
		return
	}

	track := &store.Track{
		Title:          title,
		FName:          fname,
		UploadedServer: m.GuildID,
		UploadedBy:     m.Author.ID,
	}

	if err := c.tracks.Create(ctx, track); err != nil {
		os.Remove(fname)
		c.reportStoreError(m.Message, "upload", err)
		c.deleteLater(m.ChannelID, m.ID)
		return
	}

	logger.Info("track uploaded",
		logger.String("title", title), logger.String("fname", fname))

	c.react(m.Message, reactSuccess)
	c.deleteLater(m.ChannelID, m.ID)
}

func (c *Client) downloadAttachment(ctx context.Context, url, fname string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected download status: %s", resp.Status)
	}

	file, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("failed to create track file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(fname)
		return fmt.Errorf("failed to write track file: %w", err)
	}

	return file.Close()
}

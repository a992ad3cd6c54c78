package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"

	"github.com/DeSent79/miku-bot/internal/logger"
)

const (
	channels  = 2
	frameRate = 48000
	frameSize = 960
)

// Conn wraps one discordgo voice connection and streams at most one track
// at a time. The finish callback fires only on natural end of stream, never
// on Leave or on a replacing Play.
type Conn struct {
	mu   sync.Mutex
	vc   *discordgo.VoiceConnection
	stop chan struct{}
}

func newConn(vc *discordgo.VoiceConnection) *Conn {
	return &Conn{vc: vc}
}

func (c *Conn) Play(fname string, onFinish func()) error {
	if _, err := os.Stat(fname); err != nil {
		return fmt.Errorf("audio file not available: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop

	go c.stream(fname, stop, onFinish)
	return nil
}

func (c *Conn) Leave() error {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	vc := c.vc
	c.mu.Unlock()

	if vc == nil {
		return nil
	}

	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from voice channel: %w", err)
	}

	return nil
}

// stream decodes the file through ffmpeg into 48kHz stereo PCM, encodes
// every frame to opus and pushes it onto the voice connection.
func (c *Conn) stream(fname string, stop <-chan struct{}, onFinish func()) {
	c.mu.Lock()
	vc := c.vc
	c.mu.Unlock()

	vc.Speaking(true)
	defer vc.Speaking(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-i", fname,
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"-loglevel", "warning",
		"pipe:1",
	)

	out, err := cmd.StdoutPipe()
	if err != nil {
		logger.Error("failed to create ffmpeg stdout pipe", logger.ErrorField(err))
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Error("failed to start ffmpeg", logger.ErrorField(err))
		return
	}

	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	encoder, err := gopus.NewEncoder(frameRate, channels, gopus.Audio)
	if err != nil {
		logger.Error("failed to create opus encoder", logger.ErrorField(err))
		return
	}

	audioBuf := make([]int16, frameSize*channels)

	for {
		done := make(chan struct{})
		var readErr error

		go func() {
			readErr = binary.Read(out, binary.LittleEndian, &audioBuf)
			close(done)
		}()

		select {
		case <-done:
			if readErr != nil {
				if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
					logger.Debug("end of stream", logger.String("file", fname))
					if onFinish != nil {
						onFinish()
					}
					return
				}
				logger.Error("error reading audio data", logger.ErrorField(readErr))
				return
			}
		case <-stop:
			return
		case <-time.After(5 * time.Second):
			logger.Warn("read timeout while streaming", logger.String("file", fname))
			return
		}

		opusData, err := encoder.Encode(audioBuf, frameSize, 4000)
		if err != nil {
			logger.Error("error encoding to opus", logger.ErrorField(err))
			return
		}

		select {
		case vc.OpusSend <- opusData:
		case <-stop:
			return
		case <-time.After(1 * time.Second):
			logger.Warn("timeout sending opus data")
			return
		}
	}
}

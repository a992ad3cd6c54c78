// Package session holds the live playback state for each guild and drives
// the play/stop/skip/random transitions.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/store"
)

// Voice abstracts the voice side of the chat gateway.
type Voice interface {
	Join(guildID, channelID string) (Conn, error)
}

// Conn is one live voice connection. Play streams a file and fires onFinish
// only when the stream ends naturally; Leave halts any active stream first.
type Conn interface {
	Play(fname string, onFinish func()) error
	Leave() error
}

// Notifier delivers playback announcements to the text channel that issued
// the last playback command.
type Notifier func(message string)

var (
	ErrAlreadyIdle  = errors.New("playback is already stopped")
	ErrNoQueue      = errors.New("not in random mode, nothing to skip")
	ErrNotPlaying   = errors.New("nothing is playing")
	ErrEmptyCatalog = errors.New("track catalog is empty")
)

// State is the session's position in the playback state machine.
type State string

const (
	StateIdle          State = "idle"
	StatePlaying       State = "playing"
	StateRandomPlaying State = "random"
)

// Session serializes all playback commands and stream-finish events for one
// guild behind a single mutex, so rapid commands cannot interleave.
type Session struct {
	guildID string
	tracks  store.TrackRepository
	voice   Voice

	mu         sync.Mutex
	conn       Conn
	nowPlaying *store.Track
	randomMode bool
	queue      []store.Track
	notify     Notifier
	gen        uint64
}

func New(guildID string, tracks store.TrackRepository, voice Voice) *Session {
	return &Session{
		guildID: guildID,
		tracks:  tracks,
		voice:   voice,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.conn == nil:
		return StateIdle
	case s.randomMode:
		return StateRandomPlaying
	default:
		return StatePlaying
	}
}

// NowPlaying returns a copy of the currently streaming track, or nil.
func (s *Session) NowPlaying() *store.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nowPlaying == nil {
		return nil
	}
	track := *s.nowPlaying
	return &track
}

// Play starts streaming the given track in the user's voice channel,
// dropping any random-mode state.
func (s *Session) Play(ctx context.Context, channelID string, track *store.Track, notify Notifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	track.Plays++
	if err := s.tracks.Save(ctx, track); err != nil {
		track.Plays--
		return err
	}

	s.randomMode = false
	s.queue = nil
	s.notify = notify

	if err := s.joinLocked(channelID); err != nil {
		return err
	}

	return s.streamLocked(track)
}

// Stop leaves the voice channel and clears all playback state.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopLocked()
}

// Skip counts a skip on the current track and advances the random queue.
// Only valid in random mode.
func (s *Session) Skip(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.randomMode {
		return ErrNoQueue
	}

	if s.nowPlaying != nil {
		s.nowPlaying.Skips++
		if err := s.tracks.Save(ctx, s.nowPlaying); err != nil {
			s.nowPlaying.Skips--
			return err
		}
	}

	s.nowPlaying = nil
	return s.advanceLocked(ctx)
}

// ToggleRandom starts a shuffled playback run, or stops it when one is
// already active. Reports whether the call stopped an active run.
func (s *Session) ToggleRandom(ctx context.Context, channelID string, notify Notifier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.randomMode {
		return true, s.stopLocked()
	}

	s.randomMode = true
	s.queue = nil
	s.notify = notify

	if err := s.joinLocked(channelID); err != nil {
		s.randomMode = false
		return false, err
	}

	return false, s.advanceLocked(ctx)
}

// Rate toggles the user's vote on the current track, keeping likes and
// dislikes mutually exclusive.
func (s *Session) Rate(ctx context.Context, userID string, upvote bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.nowPlaying == nil {
		return ErrNotPlaying
	}

	likes := append([]string(nil), s.nowPlaying.Likes...)
	dislikes := append([]string(nil), s.nowPlaying.Dislikes...)

	if upvote {
		s.nowPlaying.Like(userID)
	} else {
		s.nowPlaying.Dislike(userID)
	}

	if err := s.tracks.Save(ctx, s.nowPlaying); err != nil {
		s.nowPlaying.Likes = likes
		s.nowPlaying.Dislikes = dislikes
		return err
	}

	return nil
}

func (s *Session) joinLocked(channelID string) error {
	if s.conn != nil {
		if err := s.conn.Leave(); err != nil {
			logger.Warn("failed to leave previous voice channel",
				logger.String("guild", s.guildID), logger.ErrorField(err))
		}
		s.conn = nil
	}

	conn, err := s.voice.Join(s.guildID, channelID)
	if err != nil {
		return fmt.Errorf("failed to join voice channel %s: %w", channelID, err)
	}

	s.conn = conn
	return nil
}

func (s *Session) stopLocked() error {
	if s.conn == nil {
		return ErrAlreadyIdle
	}

	s.gen++
	if err := s.conn.Leave(); err != nil {
		logger.Warn("failed to leave voice channel",
			logger.String("guild", s.guildID), logger.ErrorField(err))
	}

	s.conn = nil
	s.nowPlaying = nil
	s.randomMode = false
	s.queue = nil
	return nil
}

// streamLocked starts the given track on the active connection. The finish
// callback is dropped when the session has since moved on.
func (s *Session) streamLocked(track *store.Track) error {
	s.gen++
	gen := s.gen
	s.nowPlaying = track

	if s.notify != nil {
		s.notify(fmt.Sprintf("Now playing: %s", track.Title))
	}

	err := s.conn.Play(track.FName, func() {
		s.handleFinish(gen)
	})
	if err != nil {
		return fmt.Errorf("failed to start stream for %q: %w", track.Title, err)
	}

	return nil
}

// handleFinish is the natural end-of-stream transition: leave the channel
// when playing a single track, advance the queue in random mode.
func (s *Session) handleFinish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.conn == nil {
		return
	}

	if !s.randomMode {
		if err := s.stopLocked(); err != nil {
			logger.Warn("failed to stop after stream finish",
				logger.String("guild", s.guildID), logger.ErrorField(err))
		}
		return
	}

	s.nowPlaying = nil
	if err := s.advanceLocked(context.Background()); err != nil {
		logger.Error("failed to advance random queue",
			logger.String("guild", s.guildID), logger.ErrorField(err))
	}
}

// advanceLocked pops the next queued track, refilling the queue with a
// fresh shuffle of the whole catalog when it runs out. With an empty
// catalog the session stays in random mode with nothing playing.
func (s *Session) advanceLocked(ctx context.Context) error {
	if len(s.queue) == 0 {
		all, err := s.tracks.FindAll(ctx)
		if err != nil {
			return err
		}

		if len(all) == 0 {
			logger.Warn("random mode with an empty catalog, nothing to play",
				logger.String("guild", s.guildID))
			return ErrEmptyCatalog
		}

		rand.Shuffle(len(all), func(i, j int) {
			all[i], all[j] = all[j], all[i]
		})
		s.queue = all
	}

	track := s.queue[len(s.queue)-1]
	s.queue = s.queue[:len(s.queue)-1]

	track.Plays++
	if err := s.tracks.Save(ctx, &track); err != nil {
		return err
	}

	return s.streamLocked(&track)
}

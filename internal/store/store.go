// Package store persists the track catalog and bot settings in MongoDB.
package store

import (
	"errors"
	"fmt"
)

const (
	CollectionTracks   = "tracks"
	CollectionSettings = "settings"
)

// ErrUnavailable marks a failed store operation. Callers decide whether
// that is fatal (startup) or reportable (steady-state command handling).
var ErrUnavailable = errors.New("store unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

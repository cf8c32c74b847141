package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for common conditions
var (
	ErrNoSource        = errors.New("track has no playable source")
	ErrEmptyPlaylist   = errors.New("playlist is empty")
	ErrUnknownDuration = errors.New("duration is not known yet")
	ErrNotAudio        = errors.New("file is not audio")
	ErrInvalidFormat   = errors.New("unsupported audio format")
	ErrNoStream        = errors.New("no stream loaded")
	ErrUnknownSource   = errors.New("unknown playback source")
)

// PlayerError wraps errors with additional context
type PlayerError struct {
	Op     string // Operation that failed
	Source string // Source URI if applicable
	Err    error  // Underlying error
}

func (e *PlayerError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError
func NewPlayerError(op, source string, err error) *PlayerError {
	return &PlayerError{Op: op, Source: source, Err: err}
}

// ScanError represents an error while collecting files for import
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

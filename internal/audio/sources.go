package audio

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	playerrors "github.com/jscyril/playdeck/pkg/errors"
)

// SourceScheme prefixes playback URIs handed out for local files.
const SourceScheme = "local:"

// Sources maps opaque playback URIs to local file paths. URIs stay valid
// for the life of the process.
type Sources struct {
	mu    sync.RWMutex
	paths map[string]string
}

// NewSources creates an empty registry.
func NewSources() *Sources {
	return &Sources{paths: make(map[string]string)}
}

// Register returns a fresh URI for path.
func (s *Sources) Register(path string) string {
	uri := SourceScheme + uuid.NewString()

	s.mu.Lock()
	s.paths[uri] = path
	s.mu.Unlock()
	return uri
}

// Resolve returns the file behind uri. file:// URIs resolve to their path.
func (s *Sources) Resolve(uri string) (string, error) {
	if path, ok := strings.CutPrefix(uri, "file://"); ok && path != "" {
		return path, nil
	}

	s.mu.RLock()
	path, ok := s.paths[uri]
	s.mu.RUnlock()
	if !ok {
		return "", errors.Wrapf(playerrors.ErrUnknownSource, "resolve %q", uri)
	}
	return path, nil
}

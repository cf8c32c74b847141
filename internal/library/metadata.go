package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/playlist"
)

// IsAudioMIME reports whether a MIME type names audio content.
func IsAudioMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "audio/")
}

// TitleFromName derives a display title from a file name by dropping a
// trailing ".ext". A name that is only an extension, such as ".mp3", yields
// an empty title.
func TitleFromName(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 || strings.ContainsRune(name[dot+1:], '/') {
		return name
	}
	return name[:dot]
}

// NewTrack builds a playable track for an imported file. The title comes
// from the file name and the artist is the placeholder default.
func NewTrack(entry api.FileEntry, source string) *api.Track {
	name := entry.Name
	if name == "" {
		name = filepath.Base(entry.Path)
	}
	return &api.Track{
		ID:       uuid.NewString(),
		Title:    TitleFromName(name),
		Artist:   playlist.DefaultArtist,
		Source:   source,
		FilePath: entry.Path,
	}
}

// MetadataReader fills track fields from embedded tags.
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Enrich overwrites title, artist and album with tag values when the file
// carries them. Unreadable files are left as they are.
func (r *MetadataReader) Enrich(track *api.Track) {
	if track == nil || track.FilePath == "" {
		return
	}
	file, err := os.Open(track.FilePath)
	if err != nil {
		zlog.Debug().Err(err).Str("path", track.FilePath).Msg("library: open for tags")
		return
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		// No tags is the common case for wav and raw streams.
		return
	}

	track.Title = getOrDefault(metadata.Title(), track.Title)
	track.Artist = getOrDefault(metadata.Artist(), track.Artist)
	track.Album = getOrDefault(metadata.Album(), track.Album)
}

// getOrDefault returns the value if non-empty, otherwise returns the default
func getOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

package audio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	playerrors "github.com/jscyril/playdeck/pkg/errors"
)

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": mp3.Decode,
	".wav": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(r)
	},
	".flac": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return flac.Decode(r)
	},
}

// SupportedFormats returns list of supported audio formats
func SupportedFormats() []string {
	return []string{".mp3", ".wav", ".flac"}
}

// IsSupported checks if a file format is supported
func IsSupported(filePath string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// DecodeAudio decodes an audio file based on its extension
func DecodeAudio(r io.ReadSeekCloser, filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	decode, ok := decoders[ext]
	if !ok {
		return nil, beep.Format{}, errors.Wrapf(playerrors.ErrInvalidFormat, "decode %q", ext)
	}
	return decode(r)
}

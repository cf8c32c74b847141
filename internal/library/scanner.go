package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	zlog "github.com/rs/zerolog/log"
	"github.com/ushis/m3u"

	"github.com/jscyril/playdeck/api"
	playerrors "github.com/jscyril/playdeck/pkg/errors"
)

// extensionTypes is the fallback when content sniffing does not recognise
// a file as audio.
var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
}

// Scanner turns paths into import entries concurrently using a worker pool.
// Directories are walked, .m3u playlists are expanded and every file is
// typed by sniffing its content.
type Scanner struct {
	workers int
}

// NewScanner creates a new file scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4 // Default worker count
	}
	return &Scanner{workers: workers}
}

// IsPlaylist reports whether path names an m3u playlist.
func IsPlaylist(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".m3u" || ext == ".m3u8"
}

// Scan walks paths and returns channels for entries and errors. Entries of
// every type are emitted; the consumer decides what to keep. Both channels
// are closed when the scan finishes or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, paths []string) (<-chan api.FileEntry, <-chan error) {
	entries := make(chan api.FileEntry, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	report := func(path string, err error) {
		select {
		case errs <- &playerrors.ScanError{Path: path, Err: err}:
		default:
			zlog.Warn().Err(err).Str("path", path).Msg("library: scan error dropped")
		}
	}

	var wg sync.WaitGroup

	// File discovery
	go func() {
		defer close(files)
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			if err := s.discover(ctx, path, files, report); err != nil && !errors.Is(err, context.Canceled) {
				report(path, err)
			}
		}
	}()

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				if ctx.Err() != nil {
					return
				}
				entry, err := s.ScanFile(path)
				if err != nil {
					report(path, err)
					continue
				}
				select {
				case entries <- entry:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(entries)
		close(errs)
	}()

	return entries, errs
}

func (s *Scanner) discover(ctx context.Context, root string, files chan<- string, report func(string, error)) error {
	send := func(p string) error {
		select {
		case files <- p:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if IsPlaylist(root) {
			return s.expandPlaylist(root, send, report)
		}
		return send(root)
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			report(p, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsPlaylist(p) {
			// Playlists inside a walked directory point at files the walk
			// already visits.
			return nil
		}
		return send(p)
	})
}

func (s *Scanner) expandPlaylist(path string, send func(string) error, report func(string, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := m3u.Parse(f)
	if err != nil {
		return errors.Wrap(err, "parse playlist")
	}

	dir := filepath.Dir(path)
	for _, track := range p {
		target := track.Path
		if target == "" || strings.Contains(target, "://") {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		if _, err := os.Stat(target); err != nil {
			report(target, err)
			continue
		}
		if err := send(target); err != nil {
			return err
		}
	}
	return nil
}

// ScanFile types a single file.
func (s *Scanner) ScanFile(path string) (api.FileEntry, error) {
	entry := api.FileEntry{Name: filepath.Base(path), Path: path}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return entry, errors.Wrap(err, "detect type")
	}
	entry.MIMEType = mtype.String()

	if !IsAudioMIME(entry.MIMEType) {
		if fallback, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
			entry.MIMEType = fallback
		}
	}
	return entry, nil
}

package library

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jscyril/playdeck/api"
)

// Library remembers which files have been offered for import this session
// so rescans and watcher events do not append the same file twice.
type Library struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	scanner *Scanner
}

// NewLibrary creates an empty library backed by scanner.
func NewLibrary(scanner *Scanner) *Library {
	if scanner == nil {
		scanner = NewScanner(0)
	}
	return &Library{
		seen:    make(map[string]struct{}),
		scanner: scanner,
	}
}

// Scanner returns the scanner used by Collect.
func (l *Library) Scanner() *Scanner {
	return l.scanner
}

// Collect scans paths and returns the entries not seen before, in a stable
// path order. Scan errors are joined into the returned error; entries found
// alongside them are still returned.
func (l *Library) Collect(ctx context.Context, paths []string) ([]api.FileEntry, error) {
	entries, errs := l.scanner.Scan(ctx, paths)

	var (
		scanErrs []error
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		for err := range errs {
			scanErrs = append(scanErrs, err)
		}
	}()

	var found []api.FileEntry
	for entry := range entries {
		found = append(found, entry)
	}
	<-done

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return l.Admit(found), errors.Join(scanErrs...)
}

// Admit filters out entries whose path was admitted before and records the
// rest.
func (l *Library) Admit(entries []api.FileEntry) []api.FileEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make([]api.FileEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := l.seen[e.Path]; ok {
			continue
		}
		l.seen[e.Path] = struct{}{}
		fresh = append(fresh, e)
	}
	return fresh
}

// Forget allows path to be admitted again.
func (l *Library) Forget(path string) {
	l.mu.Lock()
	delete(l.seen, path)
	l.mu.Unlock()
}

// Search ranks tracks against query by fuzzy matching on "title artist"
// and returns their indices, best match first. An empty query matches
// nothing.
func Search(tracks []*api.Track, query string) []int {
	if query == "" {
		return nil
	}
	targets := make([]string, len(tracks))
	for i, t := range tracks {
		targets[i] = t.Title + " " + t.Artist
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	result := make([]int, len(ranks))
	for i, r := range ranks {
		result[i] = r.OriginalIndex
	}
	return result
}

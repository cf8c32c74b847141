package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
)

func TestWatcherImportsSettledAudio(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(nil)

	w, err := NewWatcher(lib, []string{dir}, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []api.FileEntry, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(entries []api.FileEntry) { got <- entries }) }()

	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(dir, "drop.wav"), wavHeader)

	select {
	case entries := <-got:
		require.Len(t, entries, 1)
		assert.Equal(t, "drop.wav", entries[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("watched file was not imported")
	}

	select {
	case entries := <-got:
		t.Fatalf("unexpected import %v", entries)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(NewLibrary(nil), []string{filepath.Join(t.TempDir(), "gone")}, 0)
	assert.Error(t, err)
}

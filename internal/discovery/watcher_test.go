package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func waitForChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcherNotifiesOnNewApp(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	existing := makeApp(t, dir, "existing")

	changes := make(chan struct{}, 10)
	w, err := NewWatcher(dir, 20*time.Millisecond, func() { changes <- struct{}{} }, zap.NewNop())
	require.NoError(t, err)
	w.Start(context.Background())

	makeApp(t, dir, "blog", indexName)
	waitForChange(t, changes)

	// A marker created inside an app directory that already existed.
	require.NoError(t, os.WriteFile(filepath.Join(existing, procfileName), []byte("web: run"), 0644))
	waitForChange(t, changes)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcherStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWatcher(t.TempDir(), 0, nil, nil)
	require.NoError(t, err)
	w.Start(ctx)
	cancel()

	require.NoError(t, w.Close())
}

func TestWatcherReleasesFsnotifyOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWatcher(dir, 0, nil, nil)
	require.NoError(t, err)
	w.Start(ctx)
	cancel()

	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
	assert.ErrorIs(t, w.fsw.Add(dir), fsnotify.ErrClosed)
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), 0, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0, nil, nil)
	assert.ErrorContains(t, err, "failed to watch")
}

package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCallsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.xml")
	require.NoError(t, os.WriteFile(path, []byte("<Snapshot/>"), 0644))

	changed := make(chan struct{}, 10)
	w := New(path, func() { changed <- struct{}{} }, nil).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// A burst of writes is reported once
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<Snapshot></Snapshot>"), 0644))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	select {
	case <-changed:
		t.Fatal("burst of writes should be debounced into one call")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.xml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	changed := make(chan struct{}, 1)
	w := New(path, func() { changed <- struct{}{} }, nil).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Watch(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("change to another file should be ignored")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "gone", "snapshot.xml"), func() {}, nil)
	assert.Error(t, w.Watch(context.Background()))
}

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFilters(t *testing.T) {
	images := ExtFilter(".webp", ".jpg")
	assert.True(t, images("public/images/a.WEBP"))
	assert.True(t, images("a.jpg"))
	assert.False(t, images("a.txt"))

	assert.True(t, NoHiddenFilter("public/a.jpg"))
	assert.False(t, NoHiddenFilter("public/.a.jpg.swp"))
	assert.False(t, NoHiddenFilter("public/a.jpg~"))

	theme := PathFilter("./theme.toml")
	assert.True(t, theme("theme.toml"))
	assert.False(t, theme("other.toml"))

	either := AnyFilter(images, theme)
	assert.True(t, either("theme.toml"))
	assert.True(t, either("x.jpg"))
	assert.False(t, either("x.css"))
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.stop()

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.jpg"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "a.jpg"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "b.jpg"})

	select {
	case batch := <-d.Output():
		require.Len(t, batch, 2)
		assert.Equal(t, "a.jpg", batch[0].Path)
		assert.Equal(t, "b.jpg", batch[1].Path)
		assert.Equal(t, EventTypeModified, batch[1].Type, "later event wins")
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected second batch %v", batch)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestNewDebouncerDefaultsDelay(t *testing.T) {
	assert.Equal(t, DefaultDebounce, NewDebouncer(0).delay)
}

func TestFileWatcherStopTwice(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}

func TestFileWatcherAddPathMissing(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath(filepath.Join(t.TempDir(), "missing")))
}

func TestFileWatcherDeliversFilteredBatch(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	fw, err := NewFileWatcher(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(NoHiddenFilter)
	fw.AddFilter(ExtFilter(".jpg"))

	var (
		mu      sync.Mutex
		batches [][]ChangeEvent
	)
	fw.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "ring.jpg"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, event := range batch {
			assert.Equal(t, "ring.jpg", filepath.Base(event.Path))
		}
	}
}

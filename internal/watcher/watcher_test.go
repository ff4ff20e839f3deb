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

	"github.com/conneroisu/docskin/internal/logging"
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
		{EventType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFileWatcherDeliversDebouncedBatch(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	fw, err := NewFileWatcher(50*time.Millisecond, logging.NewNopLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(SourceFilter)
	require.NoError(t, fw.AddRecursive(docs))

	var mu sync.Mutex
	var batches [][]ChangeEvent
	fw.AddHandler(func(ctx context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	target := filepath.Join(docs, "intro.md")
	require.NoError(t, os.WriteFile(target, []byte("# One"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("# Two"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "ignored.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, event := range batch {
			assert.Equal(t, target, event.Path)
		}
	}
}

func TestDebouncerFlushKeepsLastEventPerPath(t *testing.T) {
	d := &Debouncer{delay: time.Hour, output: make(chan []ChangeEvent, 1)}
	d.pending = []ChangeEvent{
		{Type: EventTypeCreated, Path: "a.md"},
		{Type: EventTypeCreated, Path: "b.md"},
		{Type: EventTypeModified, Path: "a.md"},
	}

	d.flush()

	events := <-d.output
	require.Len(t, events, 2)
	assert.Equal(t, ChangeEvent{Type: EventTypeModified, Path: "a.md"}, events[0])
	assert.Equal(t, "b.md", events[1].Path)
	assert.Empty(t, d.pending)
}

func TestSourceFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"docs/intro.md", true},
		{"docs/guides/_category_.yml", true},
		{"docs/guides/_category_.YAML", true},
		{"static/icons/box.svg", true},
		{"main.go", false},
		{"docs/intro.md~", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, SourceFilter(tc.path))
		})
	}
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("docs/intro.md"))
	assert.True(t, NoHiddenFilter("./docs/intro.md"))
	assert.True(t, NoHiddenFilter("../docs/intro.md"))
	assert.False(t, NoHiddenFilter("docs/.intro.md.swp"))
	assert.False(t, NoHiddenFilter(".git/HEAD"))
}

func TestExcludeDirFilter(t *testing.T) {
	filter := ExcludeDirFilter("build")
	assert.False(t, filter("build"))
	assert.False(t, filter(filepath.Join("build", "docs", "index.html")))
	assert.True(t, filter("builder.md"))
	assert.True(t, filter(filepath.Join("docs", "build.md")))
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/hbs2jsx/internal/config"
)

func TestWatcherBatchesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New([]string{dir}, config.Default(), 200*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()

	a := filepath.Join(dir, "a.hbs")
	b := filepath.Join(dir, "b.hbs")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("<p>b</p>"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("<p>a</p>"), 0o644))

	select {
	case paths := <-batches:
		assert.Equal(t, []string{a, b}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New([]string{dir}, config.Default(), 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	go func() {
		_ = w.Run(ctx, func(_ context.Context, paths []string) { batches <- paths })
	}()

	sub := filepath.Join(dir, "views")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// the new directory is registered by the event loop
	card := filepath.Join(sub, "card.hbs")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(card, []byte("<p>c</p>"), 0o644); err != nil {
			return false
		}
		select {
		case paths := <-batches:
			return slices.Contains(paths, card)
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Exclude = []string{"dist/**"}
	w := &Watcher{roots: []string{filepath.FromSlash("/srv/app")}, cfg: cfg}

	assert.True(t, w.matches(filepath.FromSlash("/srv/app/views/a.hbs")))
	assert.False(t, w.matches(filepath.FromSlash("/srv/app/dist/a.hbs")))
	assert.False(t, w.matches(filepath.FromSlash("/srv/other/a.hbs")))
	assert.False(t, w.matches(filepath.FromSlash("/srv/app/a.js")))
}

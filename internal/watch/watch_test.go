package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailcfg/cli/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
	err   error
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) action(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return r.err
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("action was not called")
	}
}

func start(t *testing.T, w *Watcher, action Action) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, action) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	// Give fsnotify time to register the directories.
	time.Sleep(100 * time.Millisecond)
}

func TestNew_RequiresFiles(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "base.yaml", "mode: jit\n")

	w, err := New([]string{path}, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)

	rec := newRecorder()
	start(t, w, rec.action)

	for _, mode := range []string{"aot", "all", "jit"} {
		require.NoError(t, os.WriteFile(path, []byte("mode: "+mode+"\n"), 0o644))
	}
	rec.wait(t)

	select {
	case <-rec.ch:
		t.Fatal("burst triggered more than one action")
	case <-time.After(500 * time.Millisecond):
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{path}, rec.calls[0])
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := testutil.WriteFile(t, dir, "base.yaml", "mode: jit\n")

	w, err := New([]string{watched}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	rec := newRecorder()
	start(t, w, rec.action)

	testutil.WriteFile(t, dir, "notes.txt", "unrelated")

	select {
	case <-rec.ch:
		t.Fatal("unwatched file triggered the action")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_ContinuesAfterActionError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "base.yaml", "mode: jit\n")

	w, err := New([]string{path}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	rec := newRecorder()
	rec.err = errors.New("malformed")
	start(t, w, rec.action)

	require.NoError(t, os.WriteFile(path, []byte("mode: aot\n"), 0o644))
	rec.wait(t)

	require.NoError(t, os.WriteFile(path, []byte("mode: all\n"), 0o644))
	rec.wait(t)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New([]string{path})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx, func(context.Context, []string) error { return nil }))
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New([]string{"/does/not/exist/base.yaml"})
	require.NoError(t, err)

	err = w.Run(context.Background(), func(context.Context, []string) error { return nil })
	assert.Error(t, err)
}

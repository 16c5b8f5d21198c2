package batch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/batch"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
	"github.com/joseph-ayodele/exam-report-intake/internal/testutil"
	"github.com/joseph-ayodele/exam-report-intake/mocks"
)

func nextPath(t *testing.T, paths <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-paths:
		require.True(t, ok, "watch channel closed")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watched path")
		return ""
	}
}

func TestWatch_InitialScanAndNewFiles(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	require.NoError(t, os.WriteFile(existing, testutil.BuildPDF("old"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := batch.Watch(ctx, batch.WatchConfig{
		Root:        root,
		SkipHidden:  true,
		Debounce:    20 * time.Millisecond,
		InitialScan: true,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, existing, nextPath(t, paths))

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.png"), testutil.PNG(2, 2), 0o600))
	fresh := filepath.Join(root, "new.png")
	require.NoError(t, os.WriteFile(fresh, testutil.PNG(2, 2), 0o600))
	assert.Equal(t, fresh, nextPath(t, paths))

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	nested := filepath.Join(sub, "nested.pdf")
	require.NoError(t, os.WriteFile(nested, testutil.BuildPDF("n"), 0o600))
	assert.Equal(t, nested, nextPath(t, paths))

	cancel()
	for range paths {
	}
}

func TestWatch_RequiresRoot(t *testing.T) {
	_, _, err := batch.Watch(context.Background(), batch.WatchConfig{}, nil)
	assert.Error(t, err)

	_, _, err = batch.Watch(context.Background(), batch.WatchConfig{Root: filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)
}

func TestRunWatch_ProcessesUntilCanceled(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "r.pdf")
	require.NoError(t, os.WriteFile(path, testutil.BuildPDF("x"), 0o600))

	proc := &mocks.MockProcessor{}
	proc.On("Process", mock.Anything, mock.Anything, constants.FormatFRM, mock.Anything).
		Return(&intake.Result{ArtifactName: "r.pdf"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu  sync.Mutex
		got []batch.JobResult
	)
	done := make(chan error, 1)
	go func() {
		done <- batch.RunWatch(ctx, proc, func(r batch.JobResult) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, r)
			cancel()
		}, nil, batch.WatchConfig{Root: root, InitialScan: true}, constants.FormatFRM, batch.WithWorkers(1))
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunWatch did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	assert.Equal(t, path, got[0].Job.Path)
	require.NoError(t, got[0].Err)
	assert.Equal(t, "r.pdf", got[0].Result.ArtifactName)
}

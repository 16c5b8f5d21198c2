// Package batch runs independent intakes for every report file under a directory.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// RunDirectory scans root, processes every matched file with format, and
// returns the results sorted by path.
func RunDirectory(ctx context.Context, proc intake.Processor, logger *slog.Logger, root string, format constants.ExamFormat, skipHidden bool, opts ...Option) ([]JobResult, DirStats, error) {
	paths, stats, err := ScanDirectory(root, skipHidden)
	if err != nil {
		return nil, stats, err
	}

	var (
		mu      sync.Mutex
		results = make([]JobResult, 0, len(paths))
	)
	q := NewQueue(proc, func(r JobResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}, logger, opts...)

	var enqueueErr error
	for _, p := range paths {
		if err := q.Enqueue(ctx, Job{Path: p, Format: format}); err != nil {
			enqueueErr = err
			break
		}
	}
	q.Shutdown(context.WithoutCancel(ctx))

	mu.Lock()
	defer mu.Unlock()
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Job.Path < results[j].Job.Path })
	return results, stats, enqueueErr
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
)

// WatchConfig controls a directory watch.
type WatchConfig struct {
	Root        string
	SkipHidden  bool
	Debounce    time.Duration // quiet period before a changed file is emitted
	InitialScan bool          // emit files already present under Root
}

// Watch emits the path of every report file created or rewritten under cfg.Root,
// including files in subdirectories created after the watch started. Both channels
// are closed when ctx ends.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, nil, errors.New("root path is required")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}

	var initial []string
	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if cfg.SkipHidden && path != cfg.Root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && acceptedExt(path) {
			initial = append(initial, path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", cfg.Root, err)
	}

	paths := make(chan string, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "err", err)
			}
		}()

		for _, p := range initial {
			select {
			case paths <- p:
			case <-ctx.Done():
				return
			}
		}

		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		timer.Stop()

		flush := func() bool {
			for p := range pending {
				select {
				case paths <- p:
				case <-ctx.Done():
					return false
				}
				delete(pending, p)
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if cfg.SkipHidden && IsHidden(e.Name) {
					continue
				}
				if e.Has(fsnotify.Create) {
					if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
						if err := w.Add(e.Name); err != nil {
							logger.Warn("failed to watch new directory", "path", e.Name, "err", err)
						}
						continue
					}
				}
				if !acceptedExt(e.Name) || !(e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				timer.Reset(cfg.Debounce)
			case <-timer.C:
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "err", err)
				select {
				case errs <- err:
				default:
				}
			}
		}
	}()

	return paths, errs, nil
}

// RunWatch feeds every path emitted by Watch through a Queue until ctx ends.
// Jobs already queued are drained before it returns.
func RunWatch(ctx context.Context, proc intake.Processor, sink Sink, logger *slog.Logger, cfg WatchConfig, format constants.ExamFormat, opts ...Option) error {
	if logger == nil {
		logger = slog.Default()
	}
	paths, errs, err := Watch(ctx, cfg, logger)
	if err != nil {
		return err
	}

	q := NewQueue(proc, sink, logger, opts...)
	defer q.Shutdown(context.WithoutCancel(ctx))

	logger.Info("watching directory", "root", cfg.Root, "format", format)
	for {
		select {
		case p, ok := <-paths:
			if !ok {
				return nil
			}
			if err := q.Enqueue(ctx, Job{Path: p, Format: format}); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch degraded", "err", err)
		}
	}
}

func acceptedExt(path string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

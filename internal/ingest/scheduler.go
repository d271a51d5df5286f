package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

const defaultDebounce = 500 * time.Millisecond

// Scheduler triggers ingestion passes on a cron schedule and, optionally,
// whenever the input directory changes.
type Scheduler struct {
	ingester *Ingester
	schedule string
	watch    bool
	logger   *slog.Logger

	// Debounce is the quiet period after the last file event before a pass
	// runs.
	Debounce time.Duration

	cron    *cron.Cron
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewScheduler creates a scheduler. schedule accepts standard five-field cron
// expressions and descriptors such as "@every 5m"; empty disables polling.
func NewScheduler(ing *Ingester, schedule string, watch bool, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ingester: ing,
		schedule: schedule,
		watch:    watch,
		logger:   logger.With("component", "ingest_scheduler"),
		Debounce: defaultDebounce,
	}
}

// Start runs an initial pass in the background and begins scheduling.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.ingester.EnsureDirs(); err != nil {
		return err
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.timerMu.Lock()
	s.stopped = false
	s.timerMu.Unlock()

	if s.schedule != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx, "schedule") }); err != nil {
			s.cancel()
			return fmt.Errorf("invalid ingest schedule %q: %w", s.schedule, err)
		}
		s.cron.Start()
		s.logger.Info("ingest schedule started", "schedule", s.schedule)
	}

	if s.watch {
		if err := s.startWatcher(ctx); err != nil {
			s.Stop()
			return err
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, "startup")
	}()
	return nil
}

// Stop halts scheduling and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
	// After this no trigger can add to the wait group.
	s.timerMu.Lock()
	s.stopped = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	s.timerMu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.ingester.cfg.InputDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.ingester.cfg.InputDir, err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
					continue
				}
				if Skip(filepath.Base(event.Name)) {
					continue
				}
				s.trigger(ctx)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Info("watching input directory", "dir", s.ingester.cfg.InputDir)
	return nil
}

// trigger schedules a pass once events go quiet for the debounce period.
func (s *Scheduler) trigger(ctx context.Context) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.stopped || ctx.Err() != nil {
		return
	}

	// A pending timer holds a wait group slot until it fires or is stopped.
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.Debounce, func() {
		defer s.wg.Done()
		s.run(ctx, "watch")
	})
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	sum, err := s.ingester.RunOnce(ctx)
	if err != nil {
		s.logger.Error("ingestion pass failed", "trigger", trigger, "error", err)
		return
	}
	if sum.Processed+sum.Failed > 0 {
		s.logger.Debug("ingestion pass", "trigger", trigger, "processed", sum.Processed, "failed", sum.Failed)
	}
}

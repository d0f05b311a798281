// internal/app/system/workers/sweeper.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one in-memory cleanup. Sweep reports how many entries it removed.
type Job struct {
	Name  string
	Sweep func() int
}

// Sweeper is a background worker that runs cleanup jobs on a fixed interval:
// idle editors, expired image previews, stale rate-limit buckets.
type Sweeper struct {
	jobs     []Job
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper worker.
//
// Parameters:
//   - logger: zap logger for logging
//   - interval: how often every job runs (e.g., 1 minute)
//   - jobs: the cleanups to run
func NewSweeper(logger *zap.Logger, interval time.Duration, jobs ...Job) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		jobs:     jobs,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *Sweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("sweeper worker started",
		zap.Duration("interval", w.interval),
		zap.Int("jobs", len(w.jobs)))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("sweeper worker stopped")
	})
}

func (w *Sweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce runs every job now. A panicking job is logged and skipped.
func (w *Sweeper) SweepOnce() {
	for _, j := range w.jobs {
		w.sweep(j)
	}
}

func (w *Sweeper) sweep(j Job) {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error("sweep job panicked", zap.String("job", j.Name), zap.Any("panic", rec))
		}
	}()
	if n := j.Sweep(); n > 0 {
		w.log.Debug("swept", zap.String("job", j.Name), zap.Int("count", n))
	}
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"precis/backend/internal/logger"
)

// pruneTimeout bounds one retention pass.
const pruneTimeout = 5 * time.Minute

// RunPruner deletes run metadata older than a given age.
type RunPruner interface {
	PruneRuns(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler runs the run-metadata retention job on a cron spec.
type Scheduler struct {
	pruner     RunPruner
	retention  time.Duration
	spec       string
	cron       *cron.Cron
	cancelFunc context.CancelFunc // non-nil while a prune runs
	stopped    bool
	mu         sync.Mutex // protects cancelFunc and stopped
	running    sync.WaitGroup
}

func New(pruner RunPruner, retention time.Duration, spec string) *Scheduler {
	return &Scheduler{
		pruner:    pruner,
		retention: retention,
		spec:      spec,
		cron:      cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start schedules the job and runs one pass immediately. A zero retention
// disables pruning.
func (s *Scheduler) Start() error {
	if s.retention <= 0 {
		logger.Info("scheduler disabled", "module", "scheduler", "action", "prune", "resource", "run", "result", "skipped")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.Prune); err != nil {
		return fmt.Errorf("schedule prune %q: %w", s.spec, err)
	}
	s.cron.Start()
	go s.Prune()

	logger.Info("scheduler started", "module", "scheduler", "action", "prune", "resource", "run", "result", "ok", "spec", s.spec, "retention_ms", s.retention.Milliseconds())
	return nil
}

// Stop cancels a running prune and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.running.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "prune", "resource", "run", "result", "ok")
}

// Prune runs one retention pass. It is a no-op while another pass is
// running or after Stop.
func (s *Scheduler) Prune() {
	s.mu.Lock()
	if s.stopped || s.cancelFunc != nil {
		s.mu.Unlock()
		logger.Debug("scheduled prune skipped", "module", "scheduler", "action", "prune", "resource", "run", "result", "skipped")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	s.cancelFunc = cancel
	s.running.Add(1)
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
		s.running.Done()
	}()

	n, err := s.pruner.PruneRuns(ctx, s.retention)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("scheduled prune cancelled", "module", "scheduler", "action", "prune", "resource", "run", "result", "cancelled")
			return
		}
		logger.Error("scheduled prune failed", "module", "scheduler", "action", "prune", "resource", "run", "result", "failed", "error", err)
		return
	}
	logger.Info("scheduled prune completed", "module", "scheduler", "action", "prune", "resource", "run", "result", "ok", "deleted", n)
}

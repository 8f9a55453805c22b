// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner removes expired sessions and reports how many were deleted.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// SessionSweeper prunes expired sessions on a cron schedule.
type SessionSweeper struct {
	pruner   Pruner
	log      *zap.Logger
	onPruned func(n int64)
	timeout  time.Duration
	cron     *cron.Cron
}

// NewSessionSweeper creates a sweeper. onPruned may be nil.
func NewSessionSweeper(p Pruner, log *zap.Logger, onPruned func(n int64)) *SessionSweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionSweeper{
		pruner:   p,
		log:      log,
		onPruned: onPruned,
		timeout:  30 * time.Second,
	}
}

// Start schedules the sweep with a standard cron spec or descriptor such as
// "@every 15m". Runs never overlap.
func (s *SessionSweeper) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.log.Info("session sweeper started", zap.String("schedule", spec))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *SessionSweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single sweep.
func (s *SessionSweeper) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.pruner.PruneExpired(ctx)
	if err != nil {
		s.log.Error("session sweep failed", zap.Error(err))
		return 0
	}
	if s.onPruned != nil {
		s.onPruned(n)
	}
	if n > 0 {
		s.log.Info("expired sessions pruned", zap.Int64("count", n))
	}
	return n
}

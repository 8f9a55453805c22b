package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type prunerFunc func(ctx context.Context) (int64, error)

func (f prunerFunc) PruneExpired(ctx context.Context) (int64, error) { return f(ctx) }

func TestRunOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var reported int64
	s := NewSessionSweeper(prunerFunc(func(ctx context.Context) (int64, error) {
		return 3, nil
	}), zap.New(core), func(n int64) { reported = n })

	if n := s.RunOnce(context.Background()); n != 3 {
		t.Fatalf("RunOnce = %d, want 3", n)
	}
	if reported != 3 {
		t.Errorf("onPruned got %d, want 3", reported)
	}
	if logs.FilterMessage("expired sessions pruned").Len() != 1 {
		t.Error("expected prune to be logged")
	}
}

func TestRunOnce_Error(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewSessionSweeper(prunerFunc(func(ctx context.Context) (int64, error) {
		return 0, errors.New("db down")
	}), zap.New(core), nil)

	if n := s.RunOnce(context.Background()); n != 0 {
		t.Fatalf("RunOnce = %d, want 0", n)
	}
	if logs.FilterMessage("session sweep failed").Len() != 1 {
		t.Error("expected failure to be logged")
	}
}

func TestStart_BadSpec(t *testing.T) {
	s := NewSessionSweeper(prunerFunc(func(ctx context.Context) (int64, error) { return 0, nil }), nil, nil)
	if err := s.Start("every now and then"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStart_Runs(t *testing.T) {
	var calls atomic.Int32
	s := NewSessionSweeper(prunerFunc(func(ctx context.Context) (int64, error) {
		calls.Add(1)
		return 0, nil
	}), nil, nil)

	if err := s.Start("@every 1s"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if calls.Load() == 0 {
		t.Fatal("expected at least one scheduled sweep")
	}
}

// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fablehouse/fablehouse/internal/convo"
)

type fakeServer struct {
	listenErr   error
	shutdownErr error
	blocked     chan struct{}
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{blocked: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.blocked
	return nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.blocked)
	return f.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	if srv.shutdowns.Load() != 1 {
		t.Errorf("shutdowns = %d, want 1", srv.shutdowns.Load())
	}
}

func TestHTTPServiceListenError(t *testing.T) {
	srv := newFakeServer()
	srv.listenErr = errors.New("address in use")
	svc := NewHTTPService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Fatalf("Serve returned %v, want listen error", err)
	}
}

func TestSweeperServiceSweeps(t *testing.T) {
	store := convo.NewStore(time.Millisecond)
	store.Set("child-1", convo.FieldCharacter, "elsa")
	svc := NewSweeperService(store, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if store.Len() != 0 {
		t.Errorf("expected expired context swept, %d children remain", store.Len())
	}
}

type fakeOptimizer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeOptimizer) OptimizeSearchIndex(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestOptimizeServiceRuns(t *testing.T) {
	opt := &fakeOptimizer{}
	svc := NewOptimizeService(opt, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if opt.calls.Load() == 0 {
		t.Error("expected at least one optimization pass")
	}
}

func TestOptimizeServiceSurvivesErrors(t *testing.T) {
	opt := &fakeOptimizer{err: errors.New("locked")}
	svc := NewOptimizeService(opt, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	err := svc.Serve(ctx)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want deadline exceeded", err)
	}
	if opt.calls.Load() < 2 {
		t.Errorf("expected retries after failure, got %d calls", opt.calls.Load())
	}
}

// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/thejerf/suture/v4"
)

// mockHTTPServer is a test double for the HTTPServer interface.
type mockHTTPServer struct {
	listenAndServeErr   error
	shutdownErr         error
	listenAndServeCount atomic.Int32
	shutdownCount       atomic.Int32
	started             chan struct{}
	stopCh              chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenAndServeCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}

	if m.listenAndServeErr != nil {
		return m.listenAndServeErr
	}

	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func TestHTTPServerServiceInterface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
	var _ suture.Service = (*MaintenanceService)(nil)
}

func TestNewHTTPServerServiceDefaults(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("expected 'http-server', got %q", svc.String())
	}
}

func TestHTTPServerServiceServe(t *testing.T) {
	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		select {
		case <-server.started:
		case <-time.After(time.Second):
			t.Fatal("server did not start")
		}

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return after context cancellation")
		}

		if server.shutdownCount.Load() != 1 {
			t.Errorf("expected 1 Shutdown call, got %d", server.shutdownCount.Load())
		}
	})

	t.Run("returns error on startup failure", func(t *testing.T) {
		expectedErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenAndServeErr = expectedErr
		svc := NewHTTPServerService(server, time.Second)

		err := svc.Serve(context.Background())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error containing %v, got %v", expectedErr, err)
		}
	})

	t.Run("returns shutdown error if shutdown fails", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		<-server.started
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("expected shutdown error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return")
		}
	})
}

func TestHTTPServerServiceWithSupervisor(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errCh := sup.ServeBackground(ctx)

	select {
	case <-server.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}

	cancel()
	<-errCh

	if server.shutdownCount.Load() < 1 {
		t.Error("server Shutdown was not called")
	}
}

// mockCheckpointer records checkpoint calls.
type mockCheckpointer struct {
	count atomic.Int32
	err   error
}

func (m *mockCheckpointer) Checkpoint(ctx context.Context) error {
	m.count.Add(1)
	return m.err
}

// mockGCStore returns ErrNoRewrite after a fixed number of productive rounds.
type mockGCStore struct {
	count      atomic.Int32
	productive int32
}

func (m *mockGCStore) RunGC(discardRatio float64) error {
	n := m.count.Add(1)
	if n <= m.productive {
		return nil
	}
	return badger.ErrNoRewrite
}

func TestMaintenanceServiceDefaults(t *testing.T) {
	svc := NewMaintenanceService(nil, nil, 0)
	if svc.interval != 15*time.Minute {
		t.Errorf("expected default interval 15m, got %v", svc.interval)
	}
	if svc.String() != "storage-maintenance" {
		t.Errorf("expected 'storage-maintenance', got %q", svc.String())
	}
}

func TestMaintenanceServiceRunOnce(t *testing.T) {
	t.Run("checkpoints primary and drains fallback GC", func(t *testing.T) {
		cp := &mockCheckpointer{}
		gc := &mockGCStore{productive: 2}
		svc := NewMaintenanceService(cp, gc, time.Minute)

		svc.runOnce(context.Background())

		if cp.count.Load() != 1 {
			t.Errorf("expected 1 checkpoint, got %d", cp.count.Load())
		}
		// Two productive rounds plus the terminating ErrNoRewrite.
		if gc.count.Load() != 3 {
			t.Errorf("expected 3 GC rounds, got %d", gc.count.Load())
		}
	})

	t.Run("checkpoint failure does not stop GC", func(t *testing.T) {
		cp := &mockCheckpointer{err: errors.New("disk full")}
		gc := &mockGCStore{}
		svc := NewMaintenanceService(cp, gc, time.Minute)

		svc.runOnce(context.Background())

		if gc.count.Load() != 1 {
			t.Errorf("expected GC to run, got %d calls", gc.count.Load())
		}
	})

	t.Run("nil stores are skipped", func(t *testing.T) {
		svc := NewMaintenanceService(nil, nil, time.Minute)
		svc.runOnce(context.Background())
	})
}

func TestMaintenanceServiceServe(t *testing.T) {
	cp := &mockCheckpointer{}
	svc := NewMaintenanceService(cp, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for cp.count.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("maintenance loop did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Serve did not return after cancellation")
	}
}

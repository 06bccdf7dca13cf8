package httputil

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("freeAddr: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return context.DeadlineExceeded
}

func TestLifecycle_ServeAndCancel(t *testing.T) {
	addr := freeAddr(t)
	var lc Lifecycle

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- lc.Serve(ctx, addr, okHandler, 0, 0, 0, "test")
	}()

	if err := waitForServer(addr, 2*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		cancel()
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			t.Fatalf("unexpected Serve error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestLifecycle_ShutdownWithoutServe(t *testing.T) {
	var lc Lifecycle
	if err := lc.Shutdown(context.Background(), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLifecycle_ExplicitShutdown(t *testing.T) {
	addr := freeAddr(t)
	var lc Lifecycle

	errCh := make(chan error, 1)
	go func() {
		errCh <- lc.Serve(context.Background(), addr, okHandler, 0, 0, 0, "test")
	}()

	if err := waitForServer(addr, 2*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}
	if err := lc.Shutdown(context.Background(), "test"); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected nil from Serve after shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after explicit Shutdown")
	}
}

func TestLifecycle_ListenErrorIncludesComponent(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	defer l.Close()

	const component = "server/myprefix"
	var lc Lifecycle
	err = lc.Serve(context.Background(), addr, okHandler, 0, 0, 0, component)
	if err == nil {
		t.Fatal("expected error when address is already in use")
	}
	if err == http.ErrServerClosed {
		t.Fatal("expected address-in-use error, not ErrServerClosed")
	}
	if got := err.Error(); len(got) < len(component) || got[:len(component)] != component {
		t.Fatalf("expected error to start with %q, got %q", component, got)
	}
}

func TestLifecycle_TimeoutsForwarded(t *testing.T) {
	addr := freeAddr(t)
	var lc Lifecycle

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		lc.Serve(ctx, addr, okHandler, //nolint:errcheck
			100*time.Millisecond, 200*time.Millisecond, 300*time.Millisecond, "test")
	}()

	if err := waitForServer(addr, 2*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}

	lc.mu.RLock()
	srv := lc.srv
	lc.mu.RUnlock()

	if srv == nil {
		t.Fatal("expected srv to be set")
	}
	if srv.ReadTimeout != 100*time.Millisecond {
		t.Fatalf("ReadTimeout: expected 100ms, got %v", srv.ReadTimeout)
	}
	if srv.WriteTimeout != 200*time.Millisecond {
		t.Fatalf("WriteTimeout: expected 200ms, got %v", srv.WriteTimeout)
	}
	if srv.IdleTimeout != 300*time.Millisecond {
		t.Fatalf("IdleTimeout: expected 300ms, got %v", srv.IdleTimeout)
	}
}

func TestLifecycle_OnTransitionFiresStartAndStop(t *testing.T) {
	addr := freeAddr(t)
	var lc Lifecycle

	var mu sync.Mutex
	var events []string
	lc.OnTransition = func(event string, fields map[string]any) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
		if fields["component"] != "test" {
			t.Errorf("expected component field \"test\", got %v", fields["component"])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- lc.Serve(ctx, addr, okHandler, 0, 0, 0, "test")
	}()

	if err := waitForServer(addr, 2*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) < 2 || events[0] != "starting" || events[len(events)-1] != "stopped" {
		t.Fatalf("expected starting...stopped transitions, got %v", events)
	}
}

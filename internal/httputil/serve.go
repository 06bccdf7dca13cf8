// Package httputil provides the shared HTTP server lifecycle used by the
// transport adapter. It is an internal package and must not be imported
// outside of this module.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// defaultGracePeriod bounds how long a graceful shutdown waits for
// in-flight requests to drain once the serve context is cancelled.
const defaultGracePeriod = 5 * time.Second

// Transition, when set on a Lifecycle, is invoked on every start/stop
// state change so a caller can feed it into an observer bus without
// Lifecycle itself depending on one.
type Transition func(event string, fields map[string]any)

// Lifecycle manages the start/stop sequence of a single *http.Server. It
// is meant to be held by the process entrypoint so the goroutine/select
// dance around ListenAndServe and graceful Shutdown lives in one place
// instead of being duplicated per adapter.
//
// The zero value is ready to use.
type Lifecycle struct {
	mu  sync.RWMutex
	srv *http.Server

	// OnTransition, if set, is called for "starting", "stopped",
	// "shutdown_error" and "listen_error" events.
	OnTransition Transition
}

func (l *Lifecycle) emit(event, component string, extra map[string]any) {
	if l.OnTransition == nil {
		return
	}
	fields := map[string]any{"component": component}
	for k, v := range extra {
		fields[k] = v
	}
	l.OnTransition(event, fields)
}

// Serve builds an *http.Server around handler, starts it in a goroutine,
// and blocks until ctx is cancelled or the listener exits on its own.
//
//   - addr is the TCP address to bind, e.g. ":8080".
//   - readTimeout, writeTimeout, idleTimeout are forwarded to http.Server
//     verbatim; a zero value disables the corresponding timeout.
//   - component names the caller in returned errors and emitted
//     transitions, e.g. "ireneassistantd".
//
// When ctx is cancelled, Serve shuts down within defaultGracePeriod and
// returns ctx.Err(). A listener that exits on its own with
// http.ErrServerClosed makes Serve return nil.
func (l *Lifecycle) Serve(
	ctx context.Context,
	addr string,
	handler http.Handler,
	readTimeout, writeTimeout, idleTimeout time.Duration,
	component string,
) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	l.mu.Lock()
	l.srv = srv
	l.mu.Unlock()
	l.emit("starting", component, map[string]any{"addr": addr})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.emit("shutdown_error", component, map[string]any{"err": err.Error()})
			return fmt.Errorf("%s: shutdown error: %w", component, err)
		}
		l.emit("stopped", component, nil)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			l.emit("stopped", component, nil)
			return nil
		}
		l.emit("listen_error", component, map[string]any{"err": err.Error()})
		return fmt.Errorf("%s: %w", component, err)
	}
}

// Shutdown gracefully stops the server started by the most recent Serve
// call. It is a no-op if Serve has not been called yet.
func (l *Lifecycle) Shutdown(ctx context.Context, component string) error {
	l.mu.RLock()
	srv := l.srv
	l.mu.RUnlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: shutdown error: %w", component, err)
	}
	l.emit("stopped", component, nil)
	return nil
}

package intent

import (
	"context"
	"sync"
	"time"

	"github.com/lookatitude/irene/internal/o11y"
)

// Next invokes the remainder of the middleware chain, terminating at the
// resolved handler.
type Next func(ctx context.Context, in Intent, convo ConversationContext) (Result, error)

// Middleware wraps handler execution: auth, rate limiting, logging.
type Middleware func(ctx context.Context, in Intent, convo ConversationContext, next Next) (Result, error)

// Chain composes middlewares in order, outermost first, terminating in
// final.
func Chain(middlewares []Middleware, final Next) Next {
	next := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		inner := next
		next = func(ctx context.Context, in Intent, convo ConversationContext) (Result, error) {
			return mw(ctx, in, convo, inner)
		}
	}
	return next
}

// LoggingMiddleware logs intent execution at debug level.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, in Intent, convo ConversationContext, next Next) (Result, error) {
		log := o11y.FromContext(ctx).WithSession(convo.SessionID)
		log.Debug("executing intent", "intent", in.Name, "confidence", in.Confidence)
		res, err := next(ctx, in, convo)
		if err != nil {
			log.Warn("intent execution failed", "intent", in.Name, "err", err)
		}
		return res, err
	}
}

// RateLimitMiddleware caps executions per session to maxPerWindow within
// window, returning a graceful rate-limited Result once exceeded instead
// of calling the handler.
func RateLimitMiddleware(maxPerWindow int, window time.Duration) Middleware {
	var mu sync.Mutex
	counts := map[string][]time.Time{}

	return func(ctx context.Context, in Intent, convo ConversationContext, next Next) (Result, error) {
		mu.Lock()
		now := time.Now()
		cutoff := now.Add(-window)
		hist := counts[convo.SessionID]
		kept := hist[:0]
		for _, t := range hist {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) >= maxPerWindow {
			counts[convo.SessionID] = kept
			mu.Unlock()
			return Result{Text: "Too many requests, please slow down.", ShouldSpeak: true, Language: in.Language}, nil
		}
		counts[convo.SessionID] = append(kept, now)
		mu.Unlock()
		return next(ctx, in, convo)
	}
}

package intent

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ContextManager owns every session's ConversationContext, serializing
// mutations per session while allowing concurrent snapshot reads.
type ContextManager struct {
	mu              sync.Mutex
	sessions        map[string]*sessionEntry
	sessionTimeout  time.Duration
	maxHistoryTurns int

	cronSched *cron.Cron
}

type sessionEntry struct {
	mu  sync.Mutex
	ctx *ConversationContext
}

// NewContextManager builds a manager evicting sessions idle past
// sessionTimeout, bounding history to maxHistoryTurns*2 turns.
func NewContextManager(sessionTimeout time.Duration, maxHistoryTurns int) *ContextManager {
	return &ContextManager{
		sessions:        map[string]*sessionEntry{},
		sessionTimeout:  sessionTimeout,
		maxHistoryTurns: maxHistoryTurns,
	}
}

// GetOrCreate returns the session's context, creating it lazily.
func (cm *ContextManager) GetOrCreate(sessionID string) *ConversationContext {
	cm.mu.Lock()
	entry, ok := cm.sessions[sessionID]
	if !ok {
		now := time.Now()
		entry = &sessionEntry{ctx: &ConversationContext{
			SessionID:    sessionID,
			StartedAt:    now,
			LastActivity: now,
			UserProfile:  map[string]any{},
			Variables:    map[string]any{},
		}}
		cm.sessions[sessionID] = entry
	}
	cm.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ctx
}

// AddUserTurn appends a User turn and bounds history to the invariant
// len(history) <= 2*max_history_turns.
func (cm *ContextManager) AddUserTurn(sessionID string, in Intent) {
	cm.withSession(sessionID, func(ctx *ConversationContext) {
		ctx.History = append(ctx.History, Turn{ID: uuid.NewString(), User: &in, Timestamp: time.Now()})
		cm.bound(ctx)
	})
}

// AddAssistantTurn appends an Assistant turn and bounds history.
func (cm *ContextManager) AddAssistantTurn(sessionID string, res Result) {
	cm.withSession(sessionID, func(ctx *ConversationContext) {
		ctx.History = append(ctx.History, Turn{ID: uuid.NewString(), Assistant: &res, Timestamp: time.Now()})
		cm.bound(ctx)
	})
}

func (cm *ContextManager) bound(ctx *ConversationContext) {
	limit := cm.maxHistoryTurns * 2
	if limit > 0 && len(ctx.History) > limit {
		ctx.History = ctx.History[len(ctx.History)-limit:]
	}
	ctx.LastActivity = time.Now()
}

// Reset clears a session's history and variables without evicting it.
func (cm *ContextManager) Reset(sessionID string) {
	cm.withSession(sessionID, func(ctx *ConversationContext) {
		ctx.History = nil
		ctx.Variables = map[string]any{}
	})
}

func (cm *ContextManager) withSession(sessionID string, fn func(*ConversationContext)) {
	cm.mu.Lock()
	entry, ok := cm.sessions[sessionID]
	cm.mu.Unlock()
	if !ok {
		cm.GetOrCreate(sessionID)
		cm.mu.Lock()
		entry = cm.sessions[sessionID]
		cm.mu.Unlock()
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.ctx)
}

// Snapshot returns a cloned, lock-free-to-read copy of a session's
// context.
func (cm *ContextManager) Snapshot(sessionID string) ConversationContext {
	var out ConversationContext
	cm.withSession(sessionID, func(ctx *ConversationContext) {
		out = ctx.Snapshot()
	})
	return out
}

// GC removes sessions idle past sessionTimeout.
func (cm *ContextManager) GC() int {
	cutoff := time.Now().Add(-cm.sessionTimeout)
	cm.mu.Lock()
	defer cm.mu.Unlock()
	var removed int
	for id, entry := range cm.sessions {
		entry.mu.Lock()
		idle := entry.ctx.LastActivity.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(cm.sessions, id)
			removed++
		}
	}
	return removed
}

// StartGC schedules periodic GC using the given cron expression (e.g.
// "@every 1m"). Call the returned stop function to cancel the schedule.
func (cm *ContextManager) StartGC(schedule string) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { cm.GC() }); err != nil {
		return nil, err
	}
	c.Start()
	cm.cronSched = c
	return func() { c.Stop() }, nil
}

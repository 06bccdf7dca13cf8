package intent

import (
	"context"
	"sort"
	"strings"
)

// Handler executes a recognized Intent and produces a Result.
type Handler interface {
	// Execute runs in.Name against the given context and must never panic;
	// handler-internal failures should be returned as an error so the
	// orchestrator can delegate to the registered error handler.
	Execute(ctx context.Context, in Intent, convo ConversationContext) (Result, error)

	// RequiredParameters lists parameters in must be present for the
	// matched intent name. Missing ones trigger a clarifying prompt
	// instead of Execute being called.
	RequiredParameters(intentName string) []string

	// ClarifyingPrompt returns the text to speak/display when a required
	// parameter is missing.
	ClarifyingPrompt(intentName, missingParam string) string
}

type registration struct {
	pattern string
	kind    patternKind
	handler Handler
}

type patternKind int

const (
	kindExact patternKind = iota
	kindDomain
	kindWildcard
)

// Registry routes intent names to handlers following priority order:
// exact > domain > wildcard > fallback. The error handler is not part of
// routing; the orchestrator uses it only when a handler's Execute fails.
type Registry struct {
	regs     []registration
	fallback Handler
	errorH   Handler
}

// NewRegistry builds an empty handler registry.
func NewRegistry() *Registry { return &Registry{} }

// RegisterExact routes intentName (e.g. "timer.set") to h.
func (r *Registry) RegisterExact(intentName string, h Handler) {
	r.regs = append(r.regs, registration{pattern: intentName, kind: kindExact, handler: h})
}

// RegisterDomain routes every intent in domain (e.g. "weather") to h.
func (r *Registry) RegisterDomain(domain string, h Handler) {
	r.regs = append(r.regs, registration{pattern: domain, kind: kindDomain, handler: h})
}

// RegisterWildcard routes intents matching pattern (e.g. "timer.*") to h.
func (r *Registry) RegisterWildcard(pattern string, h Handler) {
	r.regs = append(r.regs, registration{pattern: pattern, kind: kindWildcard, handler: h})
}

// SetFallback installs the single fallback handler, invoked when no
// other registration matches.
func (r *Registry) SetFallback(h Handler) { r.fallback = h }

// SetErrorHandler installs the single error handler, invoked when the
// resolved handler's Execute returns an error.
func (r *Registry) SetErrorHandler(h Handler) { r.errorH = h }

// Resolve returns the handler for intentName per the priority order:
// exact, then domain, then wildcard (ties broken by longest literal
// prefix), then fallback.
func (r *Registry) Resolve(intentName string) (Handler, bool) {
	domain := domainOf(intentName)

	for _, kind := range []patternKind{kindExact, kindDomain} {
		for _, reg := range r.regs {
			if reg.kind != kind {
				continue
			}
			if kind == kindExact && reg.pattern == intentName {
				return reg.handler, true
			}
			if kind == kindDomain && reg.pattern == domain {
				return reg.handler, true
			}
		}
	}

	var candidates []registration
	for _, reg := range r.regs {
		if reg.kind == kindWildcard && wildcardMatches(reg.pattern, intentName) {
			candidates = append(candidates, reg)
		}
	}
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return literalPrefixLen(candidates[i].pattern) > literalPrefixLen(candidates[j].pattern)
		})
		return candidates[0].handler, true
	}

	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// ErrorHandler returns the registered error handler, if any.
func (r *Registry) ErrorHandler() (Handler, bool) {
	return r.errorH, r.errorH != nil
}

func domainOf(intentName string) string {
	if idx := strings.IndexByte(intentName, '.'); idx >= 0 {
		return intentName[:idx]
	}
	return intentName
}

func wildcardMatches(pattern, intentName string) bool {
	if !strings.HasSuffix(pattern, "*") {
		return pattern == intentName
	}
	return strings.HasPrefix(intentName, strings.TrimSuffix(pattern, "*"))
}

func literalPrefixLen(pattern string) int {
	return len(strings.TrimSuffix(pattern, "*"))
}

package validate

import (
	"context"
	"sync"
	"time"

	"voiceorder/internal/model"
)

// DefaultDebounce is how long a Session waits after the last Submit before
// issuing the lookup. Matches the per-keystroke re-validation cadence of the
// order entry screen.
const DefaultDebounce = 300 * time.Millisecond

// LookupFunc performs one validation lookup, typically (*Validator).Article
// or (*Validator).Customer.
type LookupFunc func(ctx context.Context, query string) model.MatchResult

// SessionResult is one delivered validation outcome. RequestID increases
// monotonically per issued lookup.
type SessionResult struct {
	RequestID uint64
	Query     string
	Match     model.MatchResult
}

// Session debounces repeated validation requests for a single input field and
// discards superseded responses: only the outcome of the most recently issued
// lookup is ever delivered. Lookups for distinct fields need distinct
// sessions.
type Session struct {
	lookup   LookupFunc
	debounce time.Duration
	results  chan SessionResult

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	latest  uint64
	closed  bool
	done    chan struct{}
}

// NewSession creates a session around lookup. A non-positive debounce issues
// lookups immediately.
func NewSession(lookup LookupFunc, debounce time.Duration) *Session {
	return &Session{
		lookup:   lookup,
		debounce: debounce,
		results:  make(chan SessionResult, 1),
		done:     make(chan struct{}),
	}
}

// Results delivers the non-superseded validation outcomes. Consumers should
// stop receiving once Close has been called.
func (s *Session) Results() <-chan SessionResult {
	return s.results
}

// Submit registers the latest value of the field. The lookup fires once the
// debounce interval elapses without a newer Submit; any in-flight lookup
// started for an older value has its result dropped on arrival.
func (s *Session) Submit(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = query
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.debounce <= 0 {
		s.launchLocked(ctx, query)
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.launchLocked(ctx, s.pending)
	})
}

// launchLocked issues a lookup under the session lock and delivers its result
// unless a newer lookup was issued in the meantime.
func (s *Session) launchLocked(ctx context.Context, query string) {
	s.latest++
	id := s.latest
	go func() {
		match := s.lookup(ctx, query)

		s.mu.Lock()
		stale := id != s.latest || s.closed
		s.mu.Unlock()
		if stale {
			return
		}

		select {
		case s.results <- SessionResult{RequestID: id, Query: query, Match: match}:
		case <-s.done:
		case <-ctx.Done():
		}
	}()
}

// Close stops the pending timer and releases any blocked deliveries. It does
// not close the results channel; in-flight lookups simply discard their
// outcome.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.done)
}

package review

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/metrics"
)

// Default session lifecycle durations, applied when the configuration
// leaves them unset.
const (
	// DefaultSessionTTL bounds how long a session may live, measured from
	// creation.
	DefaultSessionTTL = 2 * time.Hour

	// DefaultSweepInterval is how often the background sweep looks for
	// expired sessions.
	DefaultSweepInterval = 5 * time.Minute
)

// entry pairs a session with the mutex serializing operations on it.
type entry struct {
	mu   sync.Mutex
	sess *Session
}

// Registry holds the live sessions. Lookups take the registry's read lock;
// operations on a single session hold that session's own lock, so distinct
// sessions proceed fully in parallel.
//
// Sessions expire TTL after creation. Expiry is enforced lazily on access
// and by a background sweep started with Start.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry

	ttl           time.Duration
	sweepInterval time.Duration
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewRegistry creates an empty session registry. Non-positive durations
// select the defaults.
func NewRegistry(ttl, sweepInterval time.Duration, m *metrics.Metrics, log *slog.Logger) *Registry {
	if m == nil {
		panic("metrics cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		entries:       make(map[uuid.UUID]*entry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		metrics:       m,
		logger:        log.With(slog.String("component", "session_registry")),
		now:           domain.UTCNow,
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Put registers a session and counts it as active.
func (r *Registry) Put(sess *Session) {
	r.mu.Lock()
	r.entries[sess.ID()] = &entry{sess: sess}
	r.mu.Unlock()
	r.metrics.SessionStarted()
}

// Acquire looks up a session and locks it for exclusive use. The caller
// must call release when done. Sessions past their TTL are evicted on
// access and reported as not found, exactly like sessions that never
// existed.
func (r *Registry) Acquire(id uuid.UUID) (sess *Session, release func(), err error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	e.mu.Lock()

	// The sweep may have evicted the entry while we waited for its lock.
	r.mu.RLock()
	_, registered := r.entries[id]
	r.mu.RUnlock()
	if !registered {
		e.mu.Unlock()
		return nil, nil, ErrSessionNotFound
	}

	if r.expired(e.sess, r.now()) {
		e.mu.Unlock()
		r.evict(id)
		return nil, nil, ErrSessionNotFound
	}

	return e.sess, e.mu.Unlock, nil
}

// Remove unregisters a session, counting it as ended. The caller should
// hold the session via Acquire so no operation is in flight. Returns false
// when the session was already gone.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	_, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if ok {
		r.metrics.SessionEnded()
	}
	return ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Start launches the background eviction sweep.
func (r *Registry) Start() {
	r.wg.Add(1)
	go r.sweepLoop()
}

// Stop halts the sweep and waits for it to exit. Registered sessions stay
// available; only the sweep stops.
func (r *Registry) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// sweepLoop periodically evicts sessions whose TTL has lapsed.
func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep evicts every expired session whose lock is free. A session with an
// operation in flight is skipped and caught on a later pass, so eviction
// never stalls or disturbs live traffic.
func (r *Registry) sweep() {
	now := r.now()
	var evicted []uuid.UUID

	r.mu.Lock()
	for id, e := range r.entries {
		if !r.expired(e.sess, now) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(r.entries, id)
		e.mu.Unlock()
		evicted = append(evicted, id)
	}
	r.mu.Unlock()

	for _, id := range evicted {
		r.metrics.SessionEvicted()
		r.logger.Info("session evicted",
			slog.String("session_id", id.String()),
			slog.String("reason", "ttl_expired"))
	}
}

// evict removes a session from the map if it is still registered, counting
// the eviction exactly once even when the lazy path and the sweep race.
func (r *Registry) evict(id uuid.UUID) {
	r.mu.Lock()
	_, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if ok {
		r.metrics.SessionEvicted()
		r.logger.Info("session evicted",
			slog.String("session_id", id.String()),
			slog.String("reason", "ttl_expired"))
	}
}

// expired reports whether the session's TTL had lapsed at the given time.
func (r *Registry) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.CreatedAt()) >= r.ttl
}

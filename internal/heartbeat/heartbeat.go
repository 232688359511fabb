package heartbeat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/backend"
	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/session"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

// Manager owns one activity runner per live session. Tracking a session
// restarts its runner, mirroring the portal's navigation lifecycle where
// every route change tears down the previous timer and starts a fresh one.
type Manager struct {
	codec      *token.Codec
	clock      *session.Clock
	backend    *backend.Client
	interval   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	runners map[string]*runner
}

type runner struct {
	key    string
	userID string
	role   domain.Role
	store  *session.MemoryStore
	cancel context.CancelFunc
}

// NewManager builds the heartbeat manager. dispatcher may be nil.
func NewManager(codec *token.Codec, clock *session.Clock, client *backend.Client, cfg config.SessionConfig, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	return &Manager{
		codec:      codec,
		clock:      clock,
		backend:    client,
		interval:   cfg.HeartbeatInterval(),
		dispatcher: dispatcher,
		logger:     logger,
		runners:    make(map[string]*runner),
	}
}

// Track starts, or restarts, the heartbeat for the session carried by raw.
// An undecodable token is ignored. The first beat fires immediately; after
// that the runner ticks on a fixed wall-clock cadence.
func (m *Manager) Track(raw string) {
	claims := m.codec.Decode(raw)
	if claims == nil {
		return
	}
	// runners are keyed by the same identifier Stop receives
	key := claims.LinkID()
	if key == "" {
		return
	}
	role, _ := domain.ParseRole(claims.Role)

	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{
		key:    key,
		userID: claims.UserID,
		role:   role,
		store:  session.NewMemoryStore(raw, ""),
		cancel: cancel,
	}

	m.mu.Lock()
	previous, existed := m.runners[key]
	m.runners[key] = r
	m.mu.Unlock()

	if existed {
		previous.cancel()
	} else if m.dispatcher != nil {
		_ = m.dispatcher.Publish(ctx, events.NewSessionEvent(
			events.EventHeartbeatStarted, r.userID, r.role, nil))
	}

	go m.run(ctx, r)
}

// Stop cancels the runner for the given session-linking identifier, if one
// exists.
func (m *Manager) Stop(linkID string) {
	m.mu.Lock()
	r, ok := m.runners[linkID]
	if ok {
		delete(m.runners, linkID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	r.cancel()
	if m.dispatcher != nil {
		_ = m.dispatcher.Publish(context.Background(), events.NewSessionEvent(
			events.EventHeartbeatStopped, r.userID, r.role, nil))
	}
}

// Shutdown cancels every runner. Used on graceful gateway shutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	runners := m.runners
	m.runners = make(map[string]*runner)
	m.mu.Unlock()
	for _, r := range runners {
		r.cancel()
	}
}

// Active reports how many sessions currently have a runner.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runners)
}

func (m *Manager) run(ctx context.Context, r *runner) {
	m.beat(ctx, r)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ticks keep wall-clock cadence; a slow request never delays
			// the next one and overlapping requests are acceptable
			go m.beat(ctx, r)
		}
	}
}

// beat renews the token if it is near expiry, then reports activity using
// whatever token is current after the renewal. Transient failures are logged
// and swallowed; the timer keeps running. A session whose token is expired
// after the renewal attempt is dead, and its runner is reaped so an abandoned
// session cannot keep beating the backend forever.
func (m *Manager) beat(ctx context.Context, r *runner) {
	m.clock.EnsureFresh(ctx, r.store)

	raw := r.store.Token()
	if m.codec.IsExpired(raw) {
		m.reap(r)
		return
	}
	claims := m.codec.Decode(raw)
	if err := m.backend.UpdateActivity(ctx, raw, claims.LinkID()); err != nil {
		m.logger.Warn("activity heartbeat failed",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
	}
}

// reap cancels a dead runner and removes its map entry, unless a re-Track
// already replaced it with a fresh one.
func (m *Manager) reap(r *runner) {
	m.mu.Lock()
	current, ok := m.runners[r.key]
	if ok && current == r {
		delete(m.runners, r.key)
	} else {
		ok = false
	}
	m.mu.Unlock()

	r.cancel()
	if !ok {
		return
	}
	m.logger.Info("heartbeat reaped for expired session",
		zap.String("user_id", r.userID))
	if m.dispatcher != nil {
		_ = m.dispatcher.Publish(context.Background(), events.NewSessionEvent(
			events.EventHeartbeatStopped, r.userID, r.role, nil))
	}
}

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront-session/internal/gateway"
	"github.com/utafrali/storefront-session/internal/storage"
	apperrors "github.com/utafrali/storefront-session/pkg/errors"
)

// Manager hands out sessions by id, rehydrating each one from the store on
// first access.
type Manager struct {
	store  storage.Store
	gw     gateway.Gateway
	sink   EventSink
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	onChange []Subscriber
}

// NewManager creates a session manager. A nil sink is replaced with NopSink.
func NewManager(store storage.Store, gw gateway.Gateway, sink EventSink, logger *slog.Logger) *Manager {
	if sink == nil {
		sink = NopSink{}
	}
	return &Manager{
		store:    store,
		gw:       gw,
		sink:     sink,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for the id, creating and rehydrating it on
// first access.
func (m *Manager) Session(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		sess = newSession(id, m.store, m.gw, m.sink, m.logger)
		for _, fn := range m.onChange {
			sess.Subscribe(fn)
		}
		m.sessions[id] = sess
	}
	m.mu.Unlock()

	sess.Rehydrate(ctx)
	return sess, nil
}

// OnChange registers fn on every current and future session.
func (m *Manager) OnChange(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
	for _, sess := range m.sessions {
		sess.Subscribe(fn)
	}
}

// Evict drops the in-memory session for the id. Persisted state is kept, so
// the next access rehydrates from the store.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of resident sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

package auth

import (
	"context"
	"time"
)

// SessionManager issues and checks bounded-lifetime sessions.
type SessionManager[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]] struct {
	store        Store[ID, U, S, C]
	ttl          time.Duration
	now          func() time.Time
	logger       Logger
	legacyExpiry bool
}

// NewSessionManager creates a SessionManager backed by store.
// This function panics if store is nil.
func NewSessionManager[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]](
	store Store[ID, U, S, C],
	cfg Config,
) *SessionManager[ID, U, S, C] {
	if store == nil {
		panic("store must be provided")
	}

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionManager[ID, U, S, C]{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the manager.
func (m *SessionManager[ID, U, S, C]) WithLogger(logger Logger) *SessionManager[ID, U, S, C] {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithClock overrides the time source. Meant for tests.
func (m *SessionManager[ID, U, S, C]) WithClock(now func() time.Time) *SessionManager[ID, U, S, C] {
	if now != nil {
		m.now = now
	}
	return m
}

// WithLegacyExpiryCheck switches Validate to the legacy expiry judgment,
// which compares the session deadline as unix milliseconds against the TTL
// in milliseconds instead of against the current time. Sessions practically
// never expire under that policy; it exists for backwards compatibility.
func (m *SessionManager[ID, U, S, C]) WithLegacyExpiryCheck() *SessionManager[ID, U, S, C] {
	m.legacyExpiry = true
	return m
}

// TTL returns the configured session lifetime.
func (m *SessionManager[ID, U, S, C]) TTL() time.Duration {
	return m.ttl
}

// Create persists a session for user expiring after the configured TTL.
// Extra fields are handed to the store untouched.
func (m *SessionManager[ID, U, S, C]) Create(ctx context.Context, user U, extra map[string]any) (S, error) {
	return m.store.CreateSession(ctx, SessionDraft[ID, U]{
		User:      user,
		ExpiresOn: m.now().Add(m.ttl),
		Extra:     extra,
	})
}

// Validate looks up the session with id. ok is false when no such session
// exists or when it is judged expired; an expired session is deleted before
// returning. Deleting a session never touches its user.
func (m *SessionManager[ID, U, S, C]) Validate(ctx context.Context, id ID) (session S, ok bool, err error) {
	var zero S
	sessions, err := m.store.FindSessionsBy(ctx, SessionFilter[ID]{ID: &id})
	if err != nil {
		return zero, false, err
	}
	if len(sessions) == 0 {
		return zero, false, nil
	}

	session = sessions[0]
	if m.expired(session.GetExpiresOn()) {
		m.logger.Debug("evicting expired session id=%v", id)
		if err := m.store.DeleteSession(ctx, id); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	}

	return session, true, nil
}

// Signout deletes the session with id. Unknown ids are a no-op as long as
// the store's delete is idempotent.
func (m *SessionManager[ID, U, S, C]) Signout(ctx context.Context, id ID) error {
	return m.store.DeleteSession(ctx, id)
}

func (m *SessionManager[ID, U, S, C]) expired(deadline time.Time) bool {
	if m.legacyExpiry {
		return deadline.UnixMilli() < m.ttl.Milliseconds()
	}
	return deadline.Before(m.now())
}

package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/kasu-ga/lena-auth"
)

// Host-shaped test entities keyed by int64 ids, mirroring what an embedding
// application would bring.

type testUser struct {
	ID       int64
	Email    string
	Provider string
}

func (u *testUser) GetID() int64        { return u.ID }
func (u *testUser) GetEmail() string    { return u.Email }
func (u *testUser) GetProvider() string { return u.Provider }

type testSession struct {
	ID        int64
	ExpiresOn time.Time
	User      *testUser
	Data      map[string]any
}

func (s *testSession) GetID() int64            { return s.ID }
func (s *testSession) GetExpiresOn() time.Time { return s.ExpiresOn }

type testCode struct {
	ID        int64
	UserID    int64
	Value     string
	ExpiresOn time.Time
	Data      map[string]any
}

func (c *testCode) GetID() int64            { return c.ID }
func (c *testCode) GetUserID() int64        { return c.UserID }
func (c *testCode) GetValue() string        { return c.Value }
func (c *testCode) GetExpiresOn() time.Time { return c.ExpiresOn }

// memStore is an in-memory auth.Store with slice-backed tables and
// idempotent deletes. Optional error fields inject infrastructure failures.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	users    []*testUser
	sessions []*testSession
	codes    []*testCode

	findUsersErr     error
	createUserErr    error
	createCodeErr    error
	createSessionErr error
	deleteCodeErr    error
}

var _ auth.Store[int64, *testUser, *testSession, *testCode] = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) FindUsersBy(_ context.Context, filter auth.UserFilter[int64]) ([]*testUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUsersErr != nil {
		return nil, s.findUsersErr
	}
	var out []*testUser
	for _, u := range s.users {
		if filter.ID != nil && u.ID != *filter.ID {
			continue
		}
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		if filter.Provider != nil && u.Provider != *filter.Provider {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *memStore) CreateUser(_ context.Context, draft auth.UserDraft) (*testUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createUserErr != nil {
		return nil, s.createUserErr
	}
	user := &testUser{
		ID:       s.id(),
		Email:    draft.Email,
		Provider: draft.Provider,
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *memStore) FindSessionsBy(_ context.Context, filter auth.SessionFilter[int64]) ([]*testSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*testSession
	for _, ses := range s.sessions {
		if filter.ID != nil && ses.ID != *filter.ID {
			continue
		}
		if filter.UserID != nil && (ses.User == nil || ses.User.ID != *filter.UserID) {
			continue
		}
		out = append(out, ses)
	}
	return out, nil
}

func (s *memStore) CreateSession(_ context.Context, draft auth.SessionDraft[int64, *testUser]) (*testSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createSessionErr != nil {
		return nil, s.createSessionErr
	}
	session := &testSession{
		ID:        s.id(),
		ExpiresOn: draft.ExpiresOn,
		User:      draft.User,
		Data:      draft.Extra,
	}
	s.sessions = append(s.sessions, session)
	return session, nil
}

func (s *memStore) DeleteSession(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ses := range s.sessions {
		if ses.ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) FindCodesBy(_ context.Context, filter auth.CodeFilter[int64]) ([]*testCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*testCode
	for _, c := range s.codes {
		if filter.ID != nil && c.ID != *filter.ID {
			continue
		}
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.Value != nil && c.Value != *filter.Value {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *memStore) CreateCode(_ context.Context, draft auth.CodeDraft[int64]) (*testCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createCodeErr != nil {
		return nil, s.createCodeErr
	}
	code := &testCode{
		ID:        s.id(),
		UserID:    draft.UserID,
		Value:     draft.Value,
		ExpiresOn: draft.ExpiresOn,
		Data:      draft.Extra,
	}
	s.codes = append(s.codes, code)
	return code, nil
}

func (s *memStore) DeleteCode(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteCodeErr != nil {
		return s.deleteCodeErr
	}
	for i, c := range s.codes {
		if c.ID == id {
			s.codes = append(s.codes[:i], s.codes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *memStore) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *memStore) codeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

func (s *memStore) codesFor(userID int64) []*testCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*testCode
	for _, c := range s.codes {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

type mailerCall struct {
	user *testUser
	code string
}

// recordingMailer captures deliveries; onDeliver runs before the error
// check, so tests can observe store state at delivery time.
type recordingMailer struct {
	calls     []mailerCall
	err       error
	onDeliver func()
}

func (m *recordingMailer) DeliverCode(_ context.Context, user *testUser, code string) error {
	if m.onDeliver != nil {
		m.onDeliver()
	}
	m.calls = append(m.calls, mailerCall{user: user, code: code})
	return m.err
}

func (m *recordingMailer) lastCode() string {
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].code
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testAuthenticator = auth.Authenticator[int64, *testUser, *testSession, *testCode]

func newTestAuthenticator(cfg auth.Config) (*testAuthenticator, *memStore, *recordingMailer, *fakeClock) {
	store := newMemStore()
	mailer := &recordingMailer{}
	clock := newFakeClock()
	a := auth.New[int64, *testUser, *testSession, *testCode](store, mailer, cfg).
		WithClock(clock.Now)
	return a, store, mailer, clock
}

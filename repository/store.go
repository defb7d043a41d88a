// Package repository provides a Bun-backed implementation of the auth
// storage port for the bundled models.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	auth "github.com/kasu-ga/lena-auth"
	"github.com/uptrace/bun"
)

// Store implements auth.Store over the bundled User/Session/Code models.
// Deletes are by primary key and idempotent, which is what the core expects
// from concurrent verify calls racing on the same code.
type Store struct {
	db *bun.DB
}

var _ auth.Store[uuid.UUID, *auth.User, *auth.Session, *auth.Code] = (*Store)(nil)

// New creates a Store on top of db.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// CreateTables creates the backing tables if they don't exist. Meant for
// hosts without their own migration setup and for tests.
func (s *Store) CreateTables(ctx context.Context) error {
	models := []any{
		(*auth.User)(nil),
		(*auth.Session)(nil),
		(*auth.Code)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FindUsersBy implements auth.Store.
func (s *Store) FindUsersBy(ctx context.Context, filter auth.UserFilter[uuid.UUID]) ([]*auth.User, error) {
	var users []*auth.User
	q := s.db.NewSelect().Model(&users)
	if filter.ID != nil {
		q = q.Where("usr.id = ?", *filter.ID)
	}
	if filter.Email != nil {
		q = q.Where("usr.email = ?", *filter.Email)
	}
	if filter.Provider != nil {
		q = q.Where("usr.provider = ?", *filter.Provider)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*auth.User{}, nil
		}
		return nil, err
	}
	return users, nil
}

// CreateUser implements auth.Store. The id is derived from the email, so
// repeated registrations of the same address map to the same row.
func (s *Store) CreateUser(ctx context.Context, draft auth.UserDraft) (*auth.User, error) {
	user := &auth.User{
		ID:        userID(draft.Email),
		Email:     draft.Email,
		Provider:  draft.Provider,
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// FindSessionsBy implements auth.Store. The owning user is loaded with the
// session.
func (s *Store) FindSessionsBy(ctx context.Context, filter auth.SessionFilter[uuid.UUID]) ([]*auth.Session, error) {
	var sessions []*auth.Session
	q := s.db.NewSelect().Model(&sessions).Relation("User")
	if filter.ID != nil {
		q = q.Where("ses.id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		q = q.Where("ses.user_id = ?", *filter.UserID)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*auth.Session{}, nil
		}
		return nil, err
	}
	return sessions, nil
}

// CreateSession implements auth.Store.
func (s *Store) CreateSession(ctx context.Context, draft auth.SessionDraft[uuid.UUID, *auth.User]) (*auth.Session, error) {
	session := &auth.Session{
		ID:        uuid.New(),
		UserID:    draft.User.GetID(),
		User:      draft.User,
		ExpiresOn: draft.ExpiresOn,
		Data:      draft.Extra,
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(session).Exec(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession implements auth.Store.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*auth.Session)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// FindCodesBy implements auth.Store. Codes come back in creation order.
func (s *Store) FindCodesBy(ctx context.Context, filter auth.CodeFilter[uuid.UUID]) ([]*auth.Code, error) {
	var codes []*auth.Code
	q := s.db.NewSelect().Model(&codes).Order("cod.created_at ASC")
	if filter.ID != nil {
		q = q.Where("cod.id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		q = q.Where("cod.user_id = ?", *filter.UserID)
	}
	if filter.Value != nil {
		q = q.Where("cod.value = ?", *filter.Value)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*auth.Code{}, nil
		}
		return nil, err
	}
	return codes, nil
}

// CreateCode implements auth.Store.
func (s *Store) CreateCode(ctx context.Context, draft auth.CodeDraft[uuid.UUID]) (*auth.Code, error) {
	code := &auth.Code{
		ID:        uuid.New(),
		UserID:    draft.UserID,
		Value:     draft.Value,
		ExpiresOn: draft.ExpiresOn,
		Data:      draft.Extra,
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(code).Exec(ctx); err != nil {
		return nil, err
	}
	return code, nil
}

// DeleteCode implements auth.Store.
func (s *Store) DeleteCode(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*auth.Code)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// userID derives a stable uuid from the address via hashid so out-of-band
// registrations of the same email land on the same row.
func userID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil && id != uuid.Nil {
		return id
	}
	return uuid.New()
}

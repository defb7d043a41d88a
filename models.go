package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bundled entity models for hosts that don't bring their own shapes. The
// repository package persists them with Bun; they also satisfy the model
// contracts, so they work against any Store keyed by uuid.UUID.

var (
	_ UserModel[uuid.UUID]    = (*User)(nil)
	_ SessionModel[uuid.UUID] = (*Session)(nil)
	_ CodeModel[uuid.UUID]    = (*Code)(nil)
)

// User is the bundled user model.
type User struct {
	bun.BaseModel `bun:"table:auth_users,alias:usr"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email     string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Provider  string    `bun:"provider,notnull" json:"provider,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

func (u *User) GetID() uuid.UUID { return u.ID }

func (u *User) GetEmail() string { return u.Email }

func (u *User) GetProvider() string { return u.Provider }

// Session is the bundled session model. Data carries host fields passed as
// extra session details.
type Session struct {
	bun.BaseModel `bun:"table:auth_sessions,alias:ses"`

	ID        uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    uuid.UUID      `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User      *User          `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	ExpiresOn time.Time      `bun:"expires_on,notnull" json:"expires_on,omitempty"`
	Data      map[string]any `bun:"data,type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

func (s *Session) GetID() uuid.UUID { return s.ID }

func (s *Session) GetExpiresOn() time.Time { return s.ExpiresOn }

// Code is the bundled entry code model. Data carries host fields passed as
// extra code details.
type Code struct {
	bun.BaseModel `bun:"table:auth_codes,alias:cod"`

	ID        uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    uuid.UUID      `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Value     string         `bun:"value,notnull" json:"value,omitempty"`
	ExpiresOn time.Time      `bun:"expires_on,notnull" json:"expires_on,omitempty"`
	Data      map[string]any `bun:"data,type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

func (c *Code) GetID() uuid.UUID { return c.ID }

func (c *Code) GetExpiresOn() time.Time { return c.ExpiresOn }

func (c *Code) GetUserID() uuid.UUID { return c.UserID }

func (c *Code) GetValue() string { return c.Value }

package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Model is the minimal shape shared by every stored entity.
type Model[ID comparable] interface {
	GetID() ID
}

// UserModel is the contract a host user entity must satisfy.
type UserModel[ID comparable] interface {
	Model[ID]
	GetEmail() string
	GetProvider() string
}

// SessionModel is the contract a host session entity must satisfy.
type SessionModel[ID comparable] interface {
	Model[ID]
	GetExpiresOn() time.Time
}

// CodeModel is the contract a host entry code entity must satisfy.
type CodeModel[ID comparable] interface {
	Model[ID]
	GetExpiresOn() time.Time
	GetUserID() ID
	GetValue() string
}

// UserDraft carries the fields the core sets when registering a user.
// The store materializes the host entity and assigns its id.
type UserDraft struct {
	Email    string
	Provider string
}

// SessionDraft carries the fields the core sets when issuing a session.
// Extra holds host fields and is passed through untouched.
type SessionDraft[ID comparable, U UserModel[ID]] struct {
	User      U
	ExpiresOn time.Time
	Extra     map[string]any
}

// CodeDraft carries the fields the core sets when issuing an entry code.
// Extra holds host fields and is passed through untouched.
type CodeDraft[ID comparable] struct {
	UserID    ID
	Value     string
	ExpiresOn time.Time
	Extra     map[string]any
}

// UserFilter selects users by equality on its non-nil fields. Every set
// field must match.
type UserFilter[ID comparable] struct {
	ID       *ID
	Email    *string
	Provider *string
}

// SessionFilter selects sessions by equality on its non-nil fields.
type SessionFilter[ID comparable] struct {
	ID     *ID
	UserID *ID
}

// CodeFilter selects entry codes by equality on its non-nil fields.
type CodeFilter[ID comparable] struct {
	ID     *ID
	UserID *ID
	Value  *string
}

// Store is the persistence port. Implementations own id generation,
// consistency and atomicity; DeleteSession and DeleteCode must tolerate ids
// that were already deleted.
type Store[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]] interface {
	FindUsersBy(ctx context.Context, filter UserFilter[ID]) ([]U, error)
	CreateUser(ctx context.Context, draft UserDraft) (U, error)
	FindSessionsBy(ctx context.Context, filter SessionFilter[ID]) ([]S, error)
	CreateSession(ctx context.Context, draft SessionDraft[ID, U]) (S, error)
	DeleteSession(ctx context.Context, id ID) error
	FindCodesBy(ctx context.Context, filter CodeFilter[ID]) ([]C, error)
	CreateCode(ctx context.Context, draft CodeDraft[ID]) (C, error)
	DeleteCode(ctx context.Context, id ID) error
}

// Mailer is the delivery port invoked to transmit an entry code to a user.
type Mailer[ID comparable, U UserModel[ID]] interface {
	DeliverCode(ctx context.Context, user U, code string) error
}

// MailerFunc adapts a plain function to the Mailer interface.
type MailerFunc[ID comparable, U UserModel[ID]] func(ctx context.Context, user U, code string) error

// DeliverCode calls f(ctx, user, code).
func (f MailerFunc[ID, U]) DeliverCode(ctx context.Context, user U, code string) error {
	return f(ctx, user, code)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

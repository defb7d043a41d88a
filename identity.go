package auth

import (
	"context"
	"strings"
)

// NormalizeEmail returns the canonical form used for every email comparison:
// lowercased and stripped of surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IdentityResolver finds users by email, registering them on first contact.
type IdentityResolver[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]] struct {
	store  Store[ID, U, S, C]
	logger Logger
}

// NewIdentityResolver creates an IdentityResolver backed by store.
// This function panics if store is nil.
func NewIdentityResolver[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]](
	store Store[ID, U, S, C],
) *IdentityResolver[ID, U, S, C] {
	if store == nil {
		panic("store must be provided")
	}
	return &IdentityResolver[ID, U, S, C]{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the resolver.
func (r *IdentityResolver[ID, U, S, C]) WithLogger(logger Logger) *IdentityResolver[ID, U, S, C] {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Lookup returns the user registered with email. ok is false when no user
// exists; that is not an error.
func (r *IdentityResolver[ID, U, S, C]) Lookup(ctx context.Context, email string) (user U, ok bool, err error) {
	var zero U
	normalized := NormalizeEmail(email)
	users, err := r.store.FindUsersBy(ctx, UserFilter[ID]{Email: &normalized})
	if err != nil {
		return zero, false, err
	}
	if len(users) == 0 {
		return zero, false, nil
	}
	return users[0], true, nil
}

// Resolve returns the user registered with email, creating one tagged with
// the standalone provider when none exists. The stored email is the
// normalized form.
func (r *IdentityResolver[ID, U, S, C]) Resolve(ctx context.Context, email string) (U, error) {
	user, ok, err := r.Lookup(ctx, email)
	if err != nil {
		var zero U
		return zero, err
	}
	if ok {
		return user, nil
	}

	r.logger.Debug("registering standalone user email=%s", NormalizeEmail(email))

	return r.store.CreateUser(ctx, UserDraft{
		Email:    NormalizeEmail(email),
		Provider: ProviderStandalone,
	})
}

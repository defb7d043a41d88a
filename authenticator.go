package auth

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// SigninPayload is the input to Authenticator.Signin.
type SigninPayload struct {
	Email string `json:"email"`
}

// Validate implements the payload contract: a non-empty email is required.
func (p SigninPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
	)
}

// VerifyPayload is the input to Authenticator.Verify.
type VerifyPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements the payload contract.
func (p VerifyPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
		validation.Field(&p.Code, validation.Required),
	)
}

// Authenticator drives the passwordless email/code flow.
// It's safe to use it concurrently from multiple goroutines as long as the
// Store implementation is.
type Authenticator[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]] struct {
	store            Store[ID, U, S, C]
	mailer           Mailer[ID, U]
	identities       *IdentityResolver[ID, U, S, C]
	sessions         *SessionManager[ID, U, S, C]
	generate         func() string
	now              func() time.Time
	logger           Logger
	strictCodeExpiry bool
}

// New creates an Authenticator wired to store and mailer.
// This function panics if store or mailer are nil.
func New[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID]](
	store Store[ID, U, S, C],
	mailer Mailer[ID, U],
	cfg Config,
) *Authenticator[ID, U, S, C] {
	if store == nil {
		panic("store must be provided")
	}
	if mailer == nil {
		panic("mailer must be provided")
	}

	return &Authenticator[ID, U, S, C]{
		store:      store,
		mailer:     mailer,
		identities: NewIdentityResolver(store),
		sessions:   NewSessionManager(store, cfg),
		generate:   generateCode,
		now:        time.Now,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger on the authenticator and its collaborators.
func (a *Authenticator[ID, U, S, C]) WithLogger(logger Logger) *Authenticator[ID, U, S, C] {
	if logger != nil {
		a.logger = logger
		a.identities.WithLogger(logger)
		a.sessions.WithLogger(logger)
	}
	return a
}

// WithClock overrides the time source on the authenticator and the session
// manager. Meant for tests.
func (a *Authenticator[ID, U, S, C]) WithClock(now func() time.Time) *Authenticator[ID, U, S, C] {
	if now != nil {
		a.now = now
		a.sessions.WithClock(now)
	}
	return a
}

// WithCodeGenerator overrides the entry code generator. The replacement must
// honor the 6 digit numeric contract; use this to plug in a crypto/rand
// backed source.
func (a *Authenticator[ID, U, S, C]) WithCodeGenerator(generate func() string) *Authenticator[ID, U, S, C] {
	if generate != nil {
		a.generate = generate
	}
	return a
}

// WithStrictCodeExpiry excludes expired codes from matching during Verify.
// By default an expired code encountered in the scan is deleted but can
// still satisfy the comparison in that same pass.
func (a *Authenticator[ID, U, S, C]) WithStrictCodeExpiry() *Authenticator[ID, U, S, C] {
	a.strictCodeExpiry = true
	return a
}

// Sessions returns the SessionManager used by this Authenticator.
func (a *Authenticator[ID, U, S, C]) Sessions() *SessionManager[ID, U, S, C] {
	return a.sessions
}

// Identities returns the IdentityResolver used by this Authenticator.
func (a *Authenticator[ID, U, S, C]) Identities() *IdentityResolver[ID, U, S, C] {
	return a.identities
}

// Signin resolves the user registered with payload.Email, creating one on
// first contact, issues a one-time entry code valid for CodeTTL and delivers
// it through the mailer. extra fields are stored on the code record
// untouched. The code is persisted before the mailer runs, so a failed
// delivery leaves an outstanding code the host can retry against.
func (a *Authenticator[ID, U, S, C]) Signin(ctx context.Context, payload SigninPayload, extra map[string]any) error {
	if err := payload.Validate(); err != nil {
		return invalidPayload(err, "invalid signin payload")
	}

	user, err := a.identities.Resolve(ctx, payload.Email)
	if err != nil {
		return err
	}

	code := a.generate()
	if _, err := a.store.CreateCode(ctx, CodeDraft[ID]{
		UserID:    user.GetID(),
		Value:     code,
		ExpiresOn: a.now().Add(CodeTTL),
		Extra:     extra,
	}); err != nil {
		return err
	}

	a.logger.Debug("entry code issued user=%v", user.GetID())

	return a.mailer.DeliverCode(ctx, user, code)
}

// Verify consumes the entry code issued to payload.Email and returns a fresh
// session for the owning user. ok is false when the user is unknown, no
// codes are outstanding or none matches; none of those are errors. Expired
// codes encountered during the scan are deleted as a cleanup side effect.
// A matched code is deleted before the session is created, so a second
// Verify with the same code comes back absent.
func (a *Authenticator[ID, U, S, C]) Verify(ctx context.Context, payload VerifyPayload, extra map[string]any) (session S, ok bool, err error) {
	var zero S
	if err := payload.Validate(); err != nil {
		return zero, false, invalidPayload(err, "invalid verify payload")
	}

	user, found, err := a.identities.Lookup(ctx, payload.Email)
	if err != nil || !found {
		return zero, false, err
	}

	userID := user.GetID()
	codes, err := a.store.FindCodesBy(ctx, CodeFilter[ID]{UserID: &userID})
	if err != nil {
		return zero, false, err
	}

	for _, code := range codes {
		if code.GetExpiresOn().Before(a.now()) {
			a.logger.Debug("sweeping expired entry code id=%v", code.GetID())
			if err := a.store.DeleteCode(ctx, code.GetID()); err != nil {
				return zero, false, err
			}
			if a.strictCodeExpiry {
				continue
			}
		}

		if code.GetValue() != payload.Code {
			continue
		}

		// Consume before issuing the session; the store's delete is
		// idempotent, so a code already swept above is fine to delete again.
		if err := a.store.DeleteCode(ctx, code.GetID()); err != nil {
			return zero, false, err
		}

		session, err := a.sessions.Create(ctx, user, extra)
		if err != nil {
			return zero, false, err
		}
		return session, true, nil
	}

	return zero, false, nil
}

// generateCode returns a uniform random integer in [codeMin, codeMax] as a
// string. math/rand/v2 is not a cryptographically secure source; hosts that
// need one should swap it via Authenticator.WithCodeGenerator.
func generateCode() string {
	return strconv.Itoa(codeMin + rand.IntN(codeMax-codeMin+1))
}

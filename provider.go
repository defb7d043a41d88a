package auth

import "context"

// ResolveFunc obtains or creates a user from host-controlled input, e.g. the
// profile returned by an OAuth code exchange. The core never inspects what
// the function does; it only requires a user entity back.
type ResolveFunc[ID comparable, U UserModel[ID], In any] func(ctx context.Context, input In) (U, error)

// Provider terminates a host identity flow in a regular session, so bridged
// identities share the session lifecycle of the email/code flow.
type Provider[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID], In any] struct {
	sessions *SessionManager[ID, U, S, C]
	resolve  ResolveFunc[ID, U, In]
}

// NewProvider wraps resolve around the authenticator's session manager.
// The host function typically closes over the authenticator (or its store)
// to register users it resolves.
// This function panics if authenticator or resolve are nil.
func NewProvider[ID comparable, U UserModel[ID], S SessionModel[ID], C CodeModel[ID], In any](
	authenticator *Authenticator[ID, U, S, C],
	resolve ResolveFunc[ID, U, In],
) *Provider[ID, U, S, C, In] {
	if authenticator == nil {
		panic("authenticator must be provided")
	}
	if resolve == nil {
		panic("resolve must be provided")
	}

	return &Provider[ID, U, S, C, In]{
		sessions: authenticator.Sessions(),
		resolve:  resolve,
	}
}

// Create resolves input through the host function and issues a session for
// the resulting user. extra fields are stored on the session untouched.
// Failures from the host function propagate to the caller as-is.
func (p *Provider[ID, U, S, C, In]) Create(ctx context.Context, input In, extra map[string]any) (S, error) {
	user, err := p.resolve(ctx, input)
	if err != nil {
		var zero S
		return zero, err
	}
	return p.sessions.Create(ctx, user, extra)
}

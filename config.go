package auth

import "time"

const (
	// ProviderStandalone tags users registered through the email/code flow.
	ProviderStandalone = "standalone"

	// DefaultSessionTTL is the default for Config.SessionTTL.
	DefaultSessionTTL = time.Hour

	// CodeTTL tells how long an entry code remains valid. Not configurable.
	CodeTTL = 10 * time.Minute

	// Entry codes are uniform random integers in [codeMin, codeMax].
	codeMin = 100000
	codeMax = 999999
)

// Config holds Authenticator options.
// A zero value is a valid configuration, see constants for default values.
type Config struct {
	// SessionTTL tells how long a new session remains valid.
	SessionTTL time.Duration
}

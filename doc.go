// Package auth provides storage-agnostic passwordless authentication.
//
// The flow is the following:
//
//  1. A user wants to login and provides their email.
//  2. Authenticator.Signin emails them a one-time 6 digit entry code.
//  3. The user copies the code from the email; Authenticator.Verify checks it
//     against the outstanding codes for that email.
//  4. On a match the code is consumed and a session is issued through the
//     SessionManager.
//  5. The host checks session ids with SessionManager.Validate and ends a
//     session with SessionManager.Signout.
//
// Identities resolved outside the email flow (OAuth callbacks, SSO
// assertions) can still terminate in a regular session through a Provider.
//
// A user may hold multiple outstanding codes and multiple sessions at once.
// Issuing a new code does not invalidate earlier ones; any outstanding code
// satisfies verification until it is consumed or swept as expired.
//
// Persistence and delivery are ports. Hosts bring their own entity shapes and
// supply a Store implementation for them plus a Mailer; the repository
// package ships a Bun-backed Store for the bundled User/Session/Code models.
// The core holds no locks and adds no retries: consistency across concurrent
// calls is owned by the Store implementation, and any failure it or the
// Mailer returns is handed back to the caller as-is.
package auth

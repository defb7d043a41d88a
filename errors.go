package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidPayload = "INVALID_AUTH_PAYLOAD"

// invalidPayload wraps a payload validation failure so hosts can tell
// library-origin errors apart from propagated store and mailer failures.
func invalidPayload(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(textCodeInvalidPayload).
		WithCode(goerrors.CodeBadRequest)
}

// IsInvalidPayloadError reports whether err originated from payload
// validation inside this package.
func IsInvalidPayloadError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCodeInvalidPayload
}

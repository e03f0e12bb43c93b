// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. Codes are lowercase snake_case and stable: clients branch on
// them programmatically, so renaming one is a breaking change.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:

	// ErrCodeSiteDown marks a 403 caused by the site status gate. The
	// suspension 429 carries no code: it answers with the chat response
	// shape (is_blocked plus the remaining time) so clients render it
	// inline like any other reply.
	ErrCodeSiteDown = "site_down"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// Package services defines the business logic for chat, knowledge,
// user administration, teaching requests, and the site status gate.
// This file centralizes common service-level error values so that they
// can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is
// performed at the handler layer.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyMessage is returned when a chat request carries no message
	// text after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrConversationNotFound indicates that the requested conversation
	// does not exist or is not accessible to the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrUserNotFound indicates that the target user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login attempt. It is
	// deliberately indistinguishable between unknown email and wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken and ErrUsernameTaken reject duplicate registrations.
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmptyQuestion is returned when a teaching suggestion has no text.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNoPhrases is returned when a teach submission contains no
	// usable trigger phrase after normalization.
	ErrNoPhrases = errors.New("at least one trigger phrase is required")

	// ErrEmptyAnswer is returned when a teach submission has no answer.
	ErrEmptyAnswer = errors.New("answer is required")

	// ErrTotalAdminOnly rejects an operation reserved to the highest
	// privilege tier. It is an explicit denial, never a silent no-op.
	ErrTotalAdminOnly = errors.New("operation requires total admin")

	// ErrTargetTotalAdmin rejects role changes or deletion aimed at a
	// total admin account.
	ErrTargetTotalAdmin = errors.New("total admin accounts cannot be modified")

	// ErrInvalidStatus rejects an unknown site status value.
	ErrInvalidStatus = errors.New("invalid site status")

	// ErrInvalidAction rejects an unknown teaching-request action.
	ErrInvalidAction = errors.New("invalid request action")
)

// DuplicatePhraseError reports which normalized trigger phrases of a
// teach submission already exist somewhere in the knowledge base. The
// whole submission is rejected; no partial write happens.
type DuplicatePhraseError struct {
	Phrases []string
}

func (e *DuplicatePhraseError) Error() string {
	return fmt.Sprintf("trigger phrase(s) already known: %s", strings.Join(e.Phrases, "; "))
}

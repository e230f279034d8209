// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")

	// State machine errors.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrRequestNotPending      = errors.New("review request is not pending")
	ErrAnalysisNotReady       = errors.New("analysis report not ready")
	ErrAuditorAtCapacity      = errors.New("auditor at active contract capacity")

	// Store errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrConflict       = errors.New("optimistic commit conflict")

	// Collaborator errors.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
//
// Only commit conflicts are retryable: every business-rule failure
// (insufficient balance, forbidden, guard violations) is detected
// before any write and retrying it without refreshed state would just
// fail again.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}

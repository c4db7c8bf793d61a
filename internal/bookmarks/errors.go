package bookmarks

import (
	"errors"
	"fmt"
)

// MovementError represents a typed rejection of a bookmark movement
// operation. Storage faults are not MovementErrors; they propagate from the
// store unmodified so callers can apply their own retry policy.
type MovementError struct {
	// Code identifies the rejection category.
	Code MovementErrorCode

	// Message is a human-readable description.
	Message string

	// Bookmark is the affected bookmark name.
	Bookmark string

	// Principal is the acting principal (for permission errors).
	Principal string

	// ExpectedKind and ActualKind are set for kind mismatches.
	ExpectedKind Kind
	ActualKind   Kind
}

// MovementErrorCode categorizes movement rejections.
type MovementErrorCode string

const (
	// ErrCodePermissionDenied indicates the principal may not modify the
	// bookmark. Never retried internally.
	ErrCodePermissionDenied MovementErrorCode = "PERMISSION_DENIED"

	// ErrCodeKindMismatch indicates the bookmark's resolved kind disagrees
	// with the caller's declared restriction.
	ErrCodeKindMismatch MovementErrorCode = "KIND_MISMATCH"

	// ErrCodeConfigurationConflict indicates an incompatible policy
	// combination. Fatal for this call, not retried.
	ErrCodeConfigurationConflict MovementErrorCode = "CONFIGURATION_CONFLICT"

	// ErrCodeInvalidOperation indicates the requested movement is not
	// supported for the bookmark's kind.
	ErrCodeInvalidOperation MovementErrorCode = "INVALID_OPERATION"

	// ErrCodeTransactionNotApplied indicates the commit lost a race against
	// a concurrent conflicting change. Safe to retry by re-running the
	// whole operation; classification and hook derivation must be redone.
	ErrCodeTransactionNotApplied MovementErrorCode = "TRANSACTION_NOT_APPLIED"
)

// Error implements the error interface.
func (e *MovementError) Error() string {
	if e.Bookmark != "" {
		return fmt.Sprintf("%s: %s (bookmark=%s)", e.Code, e.Message, e.Bookmark)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPermissionDenied returns true if the error is a permission rejection.
// Uses errors.As to handle wrapped errors.
func IsPermissionDenied(err error) bool {
	return hasCode(err, ErrCodePermissionDenied)
}

// IsKindMismatch returns true if the error is a kind mismatch.
func IsKindMismatch(err error) bool {
	return hasCode(err, ErrCodeKindMismatch)
}

// IsConfigurationConflict returns true if the error is a configuration
// conflict.
func IsConfigurationConflict(err error) bool {
	return hasCode(err, ErrCodeConfigurationConflict)
}

// IsTransactionNotApplied returns true if the error is a lost race.
// Distinct from storage errors: lost races are safe to retry.
func IsTransactionNotApplied(err error) bool {
	return hasCode(err, ErrCodeTransactionNotApplied)
}

func hasCode(err error, code MovementErrorCode) bool {
	var me *MovementError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// NewPermissionDenied creates a MovementError for an ACL rejection.
func NewPermissionDenied(principal string, bookmark Name) *MovementError {
	return &MovementError{
		Code:      ErrCodePermissionDenied,
		Message:   fmt.Sprintf("user %q is not allowed to move bookmark", principal),
		Bookmark:  bookmark.String(),
		Principal: principal,
	}
}

// NewKindMismatch creates a MovementError for a restriction disagreement.
// Carries both the expected and the actual kind for diagnostics.
func NewKindMismatch(bookmark Name, expected, actual Kind) *MovementError {
	return &MovementError{
		Code:         ErrCodeKindMismatch,
		Message:      fmt.Sprintf("bookmark is %s, expected %s", actual, expected),
		Bookmark:     bookmark.String(),
		ExpectedKind: expected,
		ActualKind:   actual,
	}
}

// NewConfigurationConflict creates a MovementError for an incompatible
// policy combination.
func NewConfigurationConflict(message string) *MovementError {
	return &MovementError{
		Code:    ErrCodeConfigurationConflict,
		Message: message,
	}
}

// NewInvalidOperation creates a MovementError for a movement that the
// bookmark's kind does not support.
func NewInvalidOperation(bookmark Name, message string) *MovementError {
	return &MovementError{
		Code:     ErrCodeInvalidOperation,
		Message:  message,
		Bookmark: bookmark.String(),
	}
}

// NewTransactionNotApplied creates a MovementError for a lost race.
func NewTransactionNotApplied(bookmark Name) *MovementError {
	return &MovementError{
		Code:     ErrCodeTransactionNotApplied,
		Message:  "bookmark transaction was not applied (lost race)",
		Bookmark: bookmark.String(),
	}
}

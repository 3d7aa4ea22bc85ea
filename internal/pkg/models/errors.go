package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the orchestration core. Callers branch on these with
// errors.Is; see the handler layer for the HTTP mapping.
var (
	// ErrInvalidTransition signals a local state conflict: the event's
	// from-state no longer matches the transaction's current state. The
	// caller must re-read and retry, never retry blindly.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrDuplicateEvent signals that an event with the same cause and event
	// identity has already been applied. The transition took effect exactly
	// once; the duplicate is acknowledged, not re-applied.
	ErrDuplicateEvent = errors.New("transition event already applied")

	// ErrKeyConflict signals a completed idempotency key reserved again with
	// a different payload hash. Client misuse; not retryable.
	ErrKeyConflict = errors.New("idempotency key conflict")

	// ErrOperationInProgress signals a racing caller holds the idempotency
	// reservation and has not completed yet.
	ErrOperationInProgress = errors.New("operation in progress")

	// ErrUnrecognizedPayload signals a webhook payload no adapter could
	// normalize. Held for manual review, never silently dropped.
	ErrUnrecognizedPayload = errors.New("unrecognized webhook payload")

	// ErrVerificationFailed signals a webhook signature that did not verify.
	ErrVerificationFailed = errors.New("webhook verification failed")

	// ErrTransactionNotFound signals a lookup miss in the ledger.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrProviderUnknown signals a provider name with no registered adapter.
	ErrProviderUnknown = errors.New("unknown payment provider")
)

// GatewayError is a provider-side failure. Retryable errors (network, 5xx)
// may be retried with backoff; terminal errors (4xx validation) fail the
// attempt.
type GatewayError struct {
	Provider  string
	Code      string
	Message   string
	Retryable bool
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %s (%s)", e.Provider, e.Message, e.Code)
}

// IsRetryableGatewayError reports whether err is a GatewayError marked retryable.
func IsRetryableGatewayError(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable
	}
	return false
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionState represents the lifecycle state of a payment transaction
type TransactionState string

const (
	StateCreated              TransactionState = "created"
	StatePendingAuthorization TransactionState = "pending_authorization"
	StateAuthorized           TransactionState = "authorized"
	StateCaptured             TransactionState = "captured"
	StateSettled              TransactionState = "settled"
	StateFailed               TransactionState = "failed"
	StateRefundRequested      TransactionState = "refund_requested"
	StateRefunded             TransactionState = "refunded"
	StateVoided               TransactionState = "voided"
)

// EventType identifies the kind of transition event applied to a transaction
type EventType string

const (
	EventAuthorizationStarted   EventType = "authorization_started"
	EventAuthorizationSucceeded EventType = "authorization_succeeded"
	EventPaymentFailed          EventType = "payment_failed"
	EventCaptureSucceeded       EventType = "capture_succeeded"
	EventSettlementConfirmed    EventType = "settlement_confirmed"
	EventRefundRequested        EventType = "refund_requested"
	EventRefundSucceeded        EventType = "refund_succeeded"
	EventVoidSucceeded          EventType = "void_succeeded"
)

// TransitionCause records what drove a state transition
type TransitionCause string

const (
	CauseCommand        TransitionCause = "command"
	CauseWebhook        TransitionCause = "webhook"
	CauseReconciliation TransitionCause = "reconciliation"
)

// allowedTransitions is the authoritative transition table: for a current state,
// which event types are accepted and which state they lead to. States with an
// empty entry accept no further transitions.
var allowedTransitions = map[TransactionState]map[EventType]TransactionState{
	StateCreated: {
		EventAuthorizationStarted: StatePendingAuthorization,
		EventPaymentFailed:        StateFailed,
	},
	StatePendingAuthorization: {
		EventAuthorizationSucceeded: StateAuthorized,
		EventPaymentFailed:          StateFailed,
	},
	StateAuthorized: {
		EventCaptureSucceeded: StateCaptured,
		EventVoidSucceeded:    StateVoided,
		EventPaymentFailed:    StateFailed,
	},
	StateCaptured: {
		EventSettlementConfirmed: StateSettled,
		EventRefundRequested:     StateRefundRequested,
		EventPaymentFailed:       StateFailed,
	},
	// Settled still admits the refund branch even though reconciliation
	// treats it as done.
	StateSettled: {
		EventRefundRequested: StateRefundRequested,
	},
	StateRefundRequested: {
		EventRefundSucceeded: StateRefunded,
		EventPaymentFailed:   StateFailed,
	},
	StateFailed:   {},
	StateRefunded: {},
	StateVoided:   {},
}

// NextState returns the state reached by applying eventType in state from,
// and whether that transition is allowed.
func NextState(from TransactionState, eventType EventType) (TransactionState, bool) {
	targets, ok := allowedTransitions[from]
	if !ok {
		return "", false
	}
	to, ok := targets[eventType]
	return to, ok
}

// CanTransition reports whether eventType is accepted in state from.
func CanTransition(from TransactionState, eventType EventType) bool {
	_, ok := NextState(from, eventType)
	return ok
}

// TransitionsFrom returns a copy of the transitions accepted in a state.
func TransitionsFrom(state TransactionState) map[EventType]TransactionState {
	targets := allowedTransitions[state]
	out := make(map[EventType]TransactionState, len(targets))
	for eventType, to := range targets {
		out[eventType] = to
	}
	return out
}

// LeadsTo reports whether eventType reaches state from any from-state.
// Used to recognize stale webhooks whose effect was already applied.
func LeadsTo(eventType EventType, state TransactionState) bool {
	for _, targets := range allowedTransitions {
		if to, ok := targets[eventType]; ok && to == state {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a state permits no further orchestration.
func IsTerminal(state TransactionState) bool {
	switch state {
	case StateSettled, StateFailed, StateRefunded, StateVoided:
		return true
	}
	return false
}

// Transaction is the materialized current-state view of a payment transaction.
// It is owned by the ledger and mutated only through appended transition events.
type Transaction struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	IdempotencyKey string           `json:"idempotency_key" db:"idempotency_key"`
	AmountMinor    int64            `json:"amount_minor" db:"amount_minor"`
	Currency       string           `json:"currency" db:"currency"`
	Method         string           `json:"method" db:"method"`
	Provider       string           `json:"provider" db:"provider"`
	ProviderRef    string           `json:"provider_ref,omitempty" db:"provider_ref"`
	State          TransactionState `json:"state" db:"state"`
	ReviewRequired bool             `json:"review_required" db:"review_required"`
	ReviewReason   string           `json:"review_reason,omitempty" db:"review_reason"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// TransitionEvent is one immutable entry in a transaction's append-only history.
// EventID is the dedup identity within a cause: the idempotency key for commands,
// the provider event ID for webhooks, a synthesized ID for reconciliation.
type TransitionEvent struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	TransactionID uuid.UUID        `json:"transaction_id" db:"transaction_id"`
	FromState     TransactionState `json:"from_state" db:"from_state"`
	ToState       TransactionState `json:"to_state" db:"to_state"`
	EventType     EventType        `json:"event_type" db:"event_type"`
	Cause         TransitionCause  `json:"cause" db:"cause"`
	EventID       string           `json:"event_id" db:"event_id"`
	ProviderRef   string           `json:"provider_ref,omitempty" db:"provider_ref"`
	Payload       json.RawMessage  `json:"payload,omitempty" db:"payload"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// ChargeCommand is the inbound request to initiate a charge.
// Amounts are integer minor units (cents); floats never enter the ledger.
type ChargeCommand struct {
	IdempotencyKey string `json:"idempotency_key"`
	AmountMinor    int64  `json:"amount"`
	Currency       string `json:"currency"`
	Method         string `json:"method"`
	Provider       string `json:"provider"`
}

// CommandResult is the caller-visible outcome of a command. It is also the
// snapshot cached by the idempotency store and replayed on duplicate keys.
type CommandResult struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	State         TransactionState `json:"state"`
}

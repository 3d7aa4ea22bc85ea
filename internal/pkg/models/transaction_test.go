package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextState_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from  TransactionState
		event EventType
		want  TransactionState
	}{
		{StateCreated, EventAuthorizationStarted, StatePendingAuthorization},
		{StateCreated, EventPaymentFailed, StateFailed},
		{StatePendingAuthorization, EventAuthorizationSucceeded, StateAuthorized},
		{StatePendingAuthorization, EventPaymentFailed, StateFailed},
		{StateAuthorized, EventCaptureSucceeded, StateCaptured},
		{StateAuthorized, EventVoidSucceeded, StateVoided},
		{StateAuthorized, EventPaymentFailed, StateFailed},
		{StateCaptured, EventSettlementConfirmed, StateSettled},
		{StateCaptured, EventRefundRequested, StateRefundRequested},
		{StateCaptured, EventPaymentFailed, StateFailed},
		{StateSettled, EventRefundRequested, StateRefundRequested},
		{StateRefundRequested, EventRefundSucceeded, StateRefunded},
		{StateRefundRequested, EventPaymentFailed, StateFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.event), func(t *testing.T) {
			got, ok := NextState(tt.from, tt.event)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextState_RejectedTransitions(t *testing.T) {
	tests := []struct {
		from  TransactionState
		event EventType
	}{
		{StateCreated, EventCaptureSucceeded},
		{StateCreated, EventSettlementConfirmed},
		{StatePendingAuthorization, EventCaptureSucceeded},
		{StatePendingAuthorization, EventRefundRequested},
		{StateAuthorized, EventAuthorizationSucceeded},
		{StateAuthorized, EventSettlementConfirmed},
		{StateCaptured, EventCaptureSucceeded},
		{StateCaptured, EventVoidSucceeded},
		{StateSettled, EventSettlementConfirmed},
		{StateSettled, EventPaymentFailed},
		{StateFailed, EventAuthorizationStarted},
		{StateFailed, EventRefundRequested},
		{StateRefunded, EventRefundRequested},
		{StateVoided, EventCaptureSucceeded},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.event), func(t *testing.T) {
			_, ok := NextState(tt.from, tt.event)
			assert.False(t, ok)
			assert.False(t, CanTransition(tt.from, tt.event))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateSettled))
	assert.True(t, IsTerminal(StateFailed))
	assert.True(t, IsTerminal(StateRefunded))
	assert.True(t, IsTerminal(StateVoided))

	assert.False(t, IsTerminal(StateCreated))
	assert.False(t, IsTerminal(StatePendingAuthorization))
	assert.False(t, IsTerminal(StateAuthorized))
	assert.False(t, IsTerminal(StateCaptured))
	assert.False(t, IsTerminal(StateRefundRequested))
}

func TestLeadsTo(t *testing.T) {
	assert.True(t, LeadsTo(EventCaptureSucceeded, StateCaptured))
	assert.True(t, LeadsTo(EventPaymentFailed, StateFailed))
	assert.True(t, LeadsTo(EventRefundSucceeded, StateRefunded))

	assert.False(t, LeadsTo(EventCaptureSucceeded, StateSettled))
	assert.False(t, LeadsTo(EventAuthorizationSucceeded, StateCaptured))
}

func TestTransitionsFrom_ReturnsCopy(t *testing.T) {
	transitions := TransitionsFrom(StateAuthorized)
	assert.Len(t, transitions, 3)

	// Mutating the copy must not touch the authoritative table.
	delete(transitions, EventCaptureSucceeded)
	assert.True(t, CanTransition(StateAuthorized, EventCaptureSucceeded))
}

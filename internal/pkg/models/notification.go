package models

import (
	"time"

	"github.com/google/uuid"
)

// StateNotification is the outbound event published to the configured sink
// whenever a transaction reaches a terminal state. Delivery is at-least-once;
// consumers must dedup on TransactionID + NewState.
type StateNotification struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	NewState      TransactionState `json:"new_state"`
	Timestamp     time.Time        `json:"timestamp"`
}

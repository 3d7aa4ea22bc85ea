package models

import "time"

// IdempotencyStatus is the reservation status of an idempotency key
type IdempotencyStatus string

const (
	IdempotencyNew        IdempotencyStatus = "new"
	IdempotencyInProgress IdempotencyStatus = "in_progress"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord maps an idempotency key to exactly one outcome.
// PayloadHash guards against replays of the same key with altered content.
type IdempotencyRecord struct {
	Key         string            `json:"key"`
	Status      IdempotencyStatus `json:"status"`
	PayloadHash string            `json:"payload_hash"`
	Result      *CommandResult    `json:"result,omitempty"`
	FirstSeen   time.Time         `json:"first_seen"`
}

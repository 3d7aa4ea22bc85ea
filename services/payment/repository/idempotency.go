package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/myreprise/payflow/internal/pkg/database"
	"github.com/myreprise/payflow/internal/pkg/models"
)

const idempotencyKeyPrefix = "payment:idempotency:"

// IdempotencyRepository is the Redis-backed idempotency store. Reserve uses
// SET NX so that exactly one of any number of racing callers claims a key;
// the rest observe the in-progress or completed record.
type IdempotencyRepository struct {
	redisClient    *database.RedisClient
	reservationTTL time.Duration
	resultTTL      time.Duration
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(redisClient *database.RedisClient, cfg models.IdempotencyConfig) *IdempotencyRepository {
	reservationTTL := time.Duration(cfg.ReservationTTLSec) * time.Second
	if reservationTTL == 0 {
		reservationTTL = 2 * time.Minute
	}
	resultTTL := time.Duration(cfg.ResultTTLSec) * time.Second
	if resultTTL == 0 {
		resultTTL = 24 * time.Hour
	}

	return &IdempotencyRepository{
		redisClient:    redisClient,
		reservationTTL: reservationTTL,
		resultTTL:      resultTTL,
	}
}

// Reserve claims the key for execution, returning the reservation record.
// Exactly one caller sees status new; concurrent callers see in_progress,
// replays see completed with the cached result attached.
func (r *IdempotencyRepository) Reserve(ctx context.Context, key, payloadHash string) (*models.IdempotencyRecord, error) {
	record := &models.IdempotencyRecord{
		Key:         key,
		Status:      models.IdempotencyInProgress,
		PayloadHash: payloadHash,
		FirstSeen:   time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	set, err := r.redisClient.SetNX(ctx, idempotencyKeyPrefix+key, data, r.reservationTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if set {
		record.Status = models.IdempotencyNew
		return record, nil
	}

	// Key already held: return the existing record.
	existing, err := r.get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Reservation expired between SETNX and GET; treat as a racing
			// in-progress caller and let the client retry.
			return nil, models.ErrOperationInProgress
		}
		return nil, err
	}

	if existing.Status == models.IdempotencyCompleted && existing.PayloadHash != payloadHash {
		return nil, fmt.Errorf("%w: key %q seen with different payload", models.ErrKeyConflict, key)
	}

	return existing, nil
}

// Complete stores the outcome so replays of the key are served from cache
func (r *IdempotencyRepository) Complete(ctx context.Context, key string, result *models.CommandResult) error {
	existing, err := r.get(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	record := &models.IdempotencyRecord{
		Key:       key,
		Status:    models.IdempotencyCompleted,
		Result:    result,
		FirstSeen: time.Now().UTC(),
	}
	if existing != nil {
		record.PayloadHash = existing.PayloadHash
		record.FirstSeen = existing.FirstSeen
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	if err := r.redisClient.Set(ctx, idempotencyKeyPrefix+key, data, r.resultTTL); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}

	return nil
}

// Release drops an in-progress reservation after a failed attempt
func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if err := r.redisClient.Delete(ctx, idempotencyKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (r *IdempotencyRepository) get(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	data, err := r.redisClient.Get(ctx, idempotencyKeyPrefix+key)
	if err != nil {
		return nil, err
	}

	var record models.IdempotencyRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}

	return &record, nil
}

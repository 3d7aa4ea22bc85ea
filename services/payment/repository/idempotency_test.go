package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreprise/payflow/internal/pkg/database"
	"github.com/myreprise/payflow/internal/pkg/models"
)

func setupIdempotencyTest(t *testing.T) (*IdempotencyRepository, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { client.Close() })

	repo := NewIdempotencyRepository(
		database.NewRedisClientFromConn(client),
		models.IdempotencyConfig{ReservationTTLSec: 120, ResultTTLSec: 3600},
	)

	return repo, mock
}

func marshalRecord(t *testing.T, record *models.IdempotencyRecord) string {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	return string(data)
}

func TestReserve_ClaimsNewKey(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	mock.Regexp().
		ExpectSetNX("payment:idempotency:key-123", `.*`, 2*time.Minute).
		SetVal(true)

	record, err := repo.Reserve(context.Background(), "key-123", "hash-a")

	require.NoError(t, err)
	assert.Equal(t, models.IdempotencyNew, record.Status)
	assert.Equal(t, "hash-a", record.PayloadHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_RacingCallerSeesInProgress(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	existing := &models.IdempotencyRecord{
		Key:         "key-123",
		Status:      models.IdempotencyInProgress,
		PayloadHash: "hash-a",
		FirstSeen:   time.Now().UTC(),
	}

	mock.Regexp().
		ExpectSetNX("payment:idempotency:key-123", `.*`, 2*time.Minute).
		SetVal(false)
	mock.ExpectGet("payment:idempotency:key-123").
		SetVal(marshalRecord(t, existing))

	record, err := repo.Reserve(context.Background(), "key-123", "hash-a")

	require.NoError(t, err)
	assert.Equal(t, models.IdempotencyInProgress, record.Status)
}

func TestReserve_ReplayReturnsCachedResult(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	txnID := uuid.New()
	existing := &models.IdempotencyRecord{
		Key:         "key-123",
		Status:      models.IdempotencyCompleted,
		PayloadHash: "hash-a",
		Result:      &models.CommandResult{TransactionID: txnID, State: models.StateAuthorized},
		FirstSeen:   time.Now().UTC(),
	}

	mock.Regexp().
		ExpectSetNX("payment:idempotency:key-123", `.*`, 2*time.Minute).
		SetVal(false)
	mock.ExpectGet("payment:idempotency:key-123").
		SetVal(marshalRecord(t, existing))

	record, err := repo.Reserve(context.Background(), "key-123", "hash-a")

	require.NoError(t, err)
	assert.Equal(t, models.IdempotencyCompleted, record.Status)
	require.NotNil(t, record.Result)
	assert.Equal(t, txnID, record.Result.TransactionID)
	assert.Equal(t, models.StateAuthorized, record.Result.State)
}

func TestReserve_PayloadMismatchConflicts(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	existing := &models.IdempotencyRecord{
		Key:         "key-123",
		Status:      models.IdempotencyCompleted,
		PayloadHash: "hash-a",
		Result:      &models.CommandResult{TransactionID: uuid.New(), State: models.StateCaptured},
		FirstSeen:   time.Now().UTC(),
	}

	mock.Regexp().
		ExpectSetNX("payment:idempotency:key-123", `.*`, 2*time.Minute).
		SetVal(false)
	mock.ExpectGet("payment:idempotency:key-123").
		SetVal(marshalRecord(t, existing))

	record, err := repo.Reserve(context.Background(), "key-123", "hash-DIFFERENT")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, models.ErrKeyConflict)
}

func TestReserve_ExpiredBetweenSetNXAndGet(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	mock.Regexp().
		ExpectSetNX("payment:idempotency:key-123", `.*`, 2*time.Minute).
		SetVal(false)
	mock.ExpectGet("payment:idempotency:key-123").RedisNil()

	record, err := repo.Reserve(context.Background(), "key-123", "hash-a")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, models.ErrOperationInProgress)
}

func TestComplete_StoresResultWithResultTTL(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	existing := &models.IdempotencyRecord{
		Key:         "key-123",
		Status:      models.IdempotencyInProgress,
		PayloadHash: "hash-a",
		FirstSeen:   time.Now().UTC(),
	}

	mock.ExpectGet("payment:idempotency:key-123").
		SetVal(marshalRecord(t, existing))
	mock.Regexp().
		ExpectSet("payment:idempotency:key-123", `.*`, time.Hour).
		SetVal("OK")

	err := repo.Complete(context.Background(), "key-123",
		&models.CommandResult{TransactionID: uuid.New(), State: models.StateCaptured})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_DropsReservation(t *testing.T) {
	repo, mock := setupIdempotencyTest(t)

	mock.ExpectDel("payment:idempotency:key-123").SetVal(1)

	err := repo.Release(context.Background(), "key-123")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one action pipeline, including the
	// account locks it holds.
	DefaultTransactionTimeout = 10 * time.Second

	// MaxBulkAccounts caps how many fees/fines one bulk request may touch.
	MaxBulkAccounts = 500

	// IdempotencyKeyTTL is how long a completed action response is replayable.
	IdempotencyKeyTTL = 24 * time.Hour
)

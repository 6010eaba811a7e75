package usecase

import (
	"context"
	"time"

	"github.com/iho/feefines/internal/domain"
)

// AccountRepository defines data access for fee/fine accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// ActionRepository defines data access for ledger actions.
type ActionRepository interface {
	Create(ctx context.Context, tx Transaction, action *domain.Action) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Action, error)
	ListByAccountTx(ctx context.Context, tx Transaction, accountID string) ([]*domain.Action, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// EventPublisher hands committed-mutation notifications to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Observer receives engine measurements.
type Observer interface {
	ActionApplied(actionType domain.ActionType, amount domain.MonetaryValue)
	ActionRejected(actionType domain.ActionType, reason string)
	RefundAllocated(accounts, passes int)
	EventPublishFailed(eventType string)
}

// IdempotencyRecord is what an idempotency key remembers about a request.
type IdempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	Pending     bool   `json:"pending"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// IdempotencyStore remembers responses to mutating requests by client key.
type IdempotencyStore interface {
	// Reserve claims key for a request with the given fingerprint. When the key
	// is already taken it returns the stored record and reserved=false.
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (existing *IdempotencyRecord, reserved bool, err error)
	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, record IdempotencyRecord, ttl time.Duration) error
	// Release frees a reserved key so the request may be retried.
	Release(ctx context.Context, key string) error
}

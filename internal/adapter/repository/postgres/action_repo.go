package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/infrastructure/postgres/generated"
	"github.com/iho/feefines/internal/usecase"
)

// ActionRepository implements usecase.ActionRepository on the feefineactions table.
type ActionRepository struct {
	queries *generated.Queries
}

// NewActionRepository creates a new ActionRepository.
func NewActionRepository(pool *pgxpool.Pool) *ActionRepository {
	return newActionRepository(pool)
}

func newActionRepository(db generated.DBTX) *ActionRepository {
	return &ActionRepository{queries: generated.New(db)}
}

// Create appends an action. The storage sequence is written back to action.Sequence.
func (r *ActionRepository) Create(ctx context.Context, tx usecase.Transaction, action *domain.Action) error {
	queries := r.queries
	if tx != nil {
		queries = queries.WithTx(tx.(*Tx).PgxTx())
	}

	seq, err := queries.CreateFeefineaction(ctx, generated.CreateFeefineactionParams{
		ID:                     action.ID,
		AccountID:              action.AccountID,
		UserID:                 action.UserID,
		TypeAction:             action.TypeAction,
		AmountAction:           moneyToNumeric(action.AmountAction),
		Balance:                moneyToNumeric(action.Balance),
		PaymentMethod:          action.PaymentMethod,
		TransactionInformation: action.TransactionInformation,
		Comments:               action.Comments,
		Source:                 action.Source,
		CreatedAt:              action.CreatedAt,
		NotifyPatron:           action.NotifyPatron,
		DateAction:             timeToPgTimestamptz(action.DateAction),
	})
	if err != nil {
		return storageError(err)
	}

	action.Sequence = seq
	return nil
}

// ListByAccount returns an account's actions in ledger order.
func (r *ActionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Action, error) {
	return r.list(ctx, r.queries, accountID)
}

// ListByAccountTx is ListByAccount inside tx, after the account row is locked.
func (r *ActionRepository) ListByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Action, error) {
	return r.list(ctx, r.queries.WithTx(tx.(*Tx).PgxTx()), accountID)
}

func (r *ActionRepository) list(ctx context.Context, queries *generated.Queries, accountID string) ([]*domain.Action, error) {
	rows, err := queries.ListFeefineactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}

	actions := make([]*domain.Action, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, &domain.Action{
			ID:                     row.ID,
			AccountID:              row.AccountID,
			UserID:                 row.UserID,
			TypeAction:             row.TypeAction,
			AmountAction:           numericToMoney(row.AmountAction),
			Balance:                numericToMoney(row.Balance),
			PaymentMethod:          row.PaymentMethod,
			TransactionInformation: row.TransactionInformation,
			Comments:               row.Comments,
			Source:                 row.Source,
			CreatedAt:              row.CreatedAt,
			NotifyPatron:           row.NotifyPatron,
			DateAction:             row.DateAction.Time,
			Sequence:               row.Seq,
		})
	}

	return actions, nil
}

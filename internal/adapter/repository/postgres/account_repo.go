package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/infrastructure/postgres/generated"
	"github.com/iho/feefines/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a new fee/fine.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := r.queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:            account.ID,
		UserID:        account.UserID,
		FeeFineTypeID: account.FeeFineTypeID,
		FeeFineType:   account.FeeFineType,
		OwnerID:       account.OwnerID,
		FeeFineOwner:  account.FeeFineOwner,
		LoanID:        stringPtrToText(account.LoanID),
		Amount:        moneyToNumeric(account.Amount),
		Remaining:     moneyToNumeric(account.Remaining),
		Status:        string(account.Status),
		PaymentStatus: account.PaymentStatus,
		Version:       account.Version,
		CreatedAt:     timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
	})

	return storageError(err)
}

// GetByID retrieves a fee/fine by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves a fee/fine by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := r.queriesFor(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, storageError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks several fees/fines in id order. Missing ids are skipped.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := r.queriesFor(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, storageError(err)
	}

	return rowsToAccounts(rows), nil
}

// Update writes remaining, status and payment status. It fails with
// domain.ErrStorageConflict when the row changed since it was read.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	affected, err := r.queriesFor(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:            account.ID,
		Remaining:     moneyToNumeric(account.Remaining),
		Status:        string(account.Status),
		PaymentStatus: account.PaymentStatus,
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
		Version:       account.Version,
	})
	if err != nil {
		return storageError(err)
	}

	if affected == 0 {
		return domain.ErrStorageConflict
	}

	account.Version++
	return nil
}

// ListByUser lists a patron's fees/fines with pagination.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByUser(ctx, generated.ListAccountsByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, storageError(err)
	}

	return rowsToAccounts(rows), nil
}

// List lists fees/fines with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, storageError(err)
	}

	return rowsToAccounts(rows), nil
}

func (r *AccountRepository) queriesFor(tx usecase.Transaction) *generated.Queries {
	if tx == nil {
		return r.queries
	}
	return r.queries.WithTx(tx.(*Tx).PgxTx())
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:            row.ID,
		UserID:        row.UserID,
		FeeFineTypeID: row.FeeFineTypeID,
		FeeFineType:   row.FeeFineType,
		OwnerID:       row.OwnerID,
		FeeFineOwner:  row.FeeFineOwner,
		LoanID:        textToStringPtr(row.LoanID),
		Amount:        numericToMoney(row.Amount),
		Remaining:     numericToMoney(row.Remaining),
		Status:        domain.AccountStatus(row.Status),
		PaymentStatus: row.PaymentStatus,
		Version:       row.Version,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func stringPtrToText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/feefines/internal/domain"
)

var accountColumns = []string{
	"id", "user_id", "fee_fine_type_id", "fee_fine_type", "owner_id", "fee_fine_owner", "loan_id",
	"amount", "remaining", "status", "payment_status", "version", "created_at", "updated_at",
}

func money(s string) pgtype.Numeric {
	return moneyToNumeric(domain.MustParseMonetaryValue(s))
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("SELECT (.+) FROM accounts WHERE id = \\$1").
		WithArgs("ff-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"ff-1", "patron-1", "overdue", "Overdue fine", "owner-1", "Main library", pgtype.Text{},
			money("10.00"), money("4.50"), "Open", "Paid partially", int64(3),
			timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))

	repo := newAccountRepository(mockPool)
	account, err := repo.GetByID(context.Background(), "ff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Remaining.String() != "4.50" || account.Amount.String() != "10.00" {
		t.Errorf("unexpected amounts %s/%s", account.Amount, account.Remaining)
	}
	if account.Status != domain.AccountStatusOpen || account.Version != 3 {
		t.Errorf("unexpected account %+v", account)
	}
	if account.HasLoan() {
		t.Error("expected no loan")
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ff-404").
		WillReturnError(pgx.ErrNoRows)

	repo := newAccountRepository(mockPool)
	if _, err := repo.GetByID(context.Background(), "ff-404"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountRepositoryUpdate(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		wantErr     error
		wantVersion int64
	}{
		{"current version", 1, nil, 8},
		{"stale version", 0, domain.ErrStorageConflict, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
			mockPool.ExpectExec("UPDATE accounts").
				WithArgs(anyArgs(6)...).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))
			mockPool.ExpectRollback()

			tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
			if err != nil {
				t.Fatalf("begin failed: %v", err)
			}

			account := &domain.Account{ID: "ff-1", Remaining: domain.MustParseMonetaryValue("1.00"), Status: domain.AccountStatusOpen, Version: 7}
			err = newAccountRepository(mockPool).Update(context.Background(), tx, account)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if account.Version != tt.wantVersion {
				t.Errorf("expected version %d, got %d", tt.wantVersion, account.Version)
			}

			_ = tx.Rollback(context.Background())
			assertExpectations(t, mockPool)
		})
	}
}

func TestActionRepositoryCreateReturnsSequence(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mockPool.ExpectQuery("INSERT INTO feefineactions").
		WithArgs(anyArgs(13)...).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))
	mockPool.ExpectCommit()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	action := &domain.Action{
		ID:           "act-1",
		AccountID:    "ff-1",
		TypeAction:   "Paid fully",
		AmountAction: domain.MustParseMonetaryValue("3.00"),
		DateAction:   time.Now().UTC(),
	}
	if err := newActionRepository(mockPool).Create(context.Background(), tx, action); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Sequence != 42 {
		t.Errorf("expected sequence 42, got %d", action.Sequence)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestActionRepositoryListFailureIsStorageFailure(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT (.+) FROM feefineactions").
		WithArgs("ff-1").
		WillReturnError(errors.New("connection reset"))

	_, err := newActionRepository(mockPool).ListByAccount(context.Background(), "ff-1")
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

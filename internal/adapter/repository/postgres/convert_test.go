package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/feefines/internal/domain"
)

func TestMoneyNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "1.24", "1234567.89", "0.01"} {
		got := numericToMoney(moneyToNumeric(domain.MustParseMonetaryValue(s)))
		if got.String() != s {
			t.Errorf("round trip of %s gave %s", s, got)
		}
	}
}

func TestStorageError(t *testing.T) {
	if storageError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	deadlock := storageError(&pgconn.PgError{Code: pgErrDeadlock})
	if !errors.Is(deadlock, domain.ErrStorageConflict) {
		t.Errorf("expected deadlock to be a conflict, got %v", deadlock)
	}
	var pgErr *pgconn.PgError
	if !errors.As(deadlock, &pgErr) {
		t.Error("expected driver error to stay reachable")
	}

	other := storageError(errors.New("connection refused"))
	if !errors.Is(other, domain.ErrStorageFailure) {
		t.Errorf("expected storage failure, got %v", other)
	}
	if errors.Is(other, domain.ErrStorageConflict) {
		t.Error("generic failure must not be a conflict")
	}
}

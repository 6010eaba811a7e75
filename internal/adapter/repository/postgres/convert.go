package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/feefines/internal/domain"
)

// Type conversion helpers.
func moneyToNumeric(m domain.MonetaryValue) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(m.String())

	return n
}

func numericToMoney(n pgtype.Numeric) domain.MonetaryValue {
	if !n.Valid || n.Int == nil {
		return domain.ZeroMoney
	}

	return domain.NewMonetaryValue(decimal.NewFromBigInt(n.Int, n.Exp))
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// storageError tags driver errors with domain.ErrStorageFailure and keeps the
// driver error reachable for retry classification.
func storageError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isRetryableError(err) {
		return fmt.Errorf("%w: %w", domain.ErrStorageConflict, err)
	}

	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}

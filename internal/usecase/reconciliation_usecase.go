package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/feefines/internal/domain"
)

// ReconciliationUseCase checks that recorded balances match the action history.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	actionRepo  ActionRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountRepository, actionRepo ActionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		actionRepo:  actionRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedRemaining domain.MonetaryValue
	ReplayedBalance   domain.MonetaryValue
	Difference        domain.MonetaryValue
	Mismatches        []domain.ReplayMismatch
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount replays the ledger of one fee/fine.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	actions, err := uc.actionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	replay := domain.ReplayActions(account.Amount, actions)
	difference := account.Remaining.Subtract(replay.Balance)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedRemaining: account.Remaining,
		ReplayedBalance:   replay.Balance,
		Difference:        difference,
		Mismatches:        replay.Mismatches,
		IsReconciled:      difference.IsZero() && len(replay.Mismatches) == 0,
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles every fee/fine, one page at a time.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	limit, offset, _ := domain.ValidatePagination(1000, 0)

	var results []*ReconciliationResult
	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < limit {
			break
		}
		offset += limit
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a report over all fees/fines.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

package usecase

import (
	"context"
	"errors"

	"github.com/iho/feefines/internal/domain"
)

// CheckResult is the outcome of a dry-run validation.
type CheckResult struct {
	AccountIDs      []string
	Amount          domain.MonetaryValue
	RemainingAmount domain.MonetaryValue
}

// Check validates a single-account action without applying it.
func (uc *ActionUseCase) Check(ctx context.Context, t domain.ActionType, input ActionInput) (*CheckResult, error) {
	return uc.check(ctx, t, []string{input.AccountID}, input.Amount, false)
}

// CheckBulk validates a multi-account action without applying it.
func (uc *ActionUseCase) CheckBulk(ctx context.Context, t domain.ActionType, input BulkActionInput) (*CheckResult, error) {
	if t == domain.ActionTypeCancel {
		return nil, domain.NewActionError(domain.ErrUnsupportedAction, input.Amount, input.AccountIDs...)
	}
	if len(uniqueIDs(input.AccountIDs)) > MaxBulkAccounts {
		return nil, domain.NewActionError(domain.ErrTooManyAccounts, input.Amount)
	}
	return uc.check(ctx, t, input.AccountIDs, input.Amount, true)
}

func (uc *ActionUseCase) check(ctx context.Context, t domain.ActionType, accountIDs []string, rawAmount string, bulk bool) (*CheckResult, error) {
	ids := uniqueIDs(accountIDs)

	if err := checkActionType(t); err != nil {
		return nil, domain.NewActionError(err, rawAmount, ids...)
	}
	if len(ids) == 0 {
		return nil, domain.NewActionError(missingAccountsError(bulk), rawAmount)
	}

	accounts := make([]*domain.Account, len(ids))
	for i, id := range ids {
		account, err := uc.accountRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				continue
			}
			return nil, domain.NewActionError(err, rawAmount, ids...)
		}
		accounts[i] = account
	}

	var targets [][]domain.RefundTarget
	if t == domain.ActionTypeRefund {
		targets = make([][]domain.RefundTarget, len(accounts))
		for i, account := range accounts {
			if account == nil {
				continue
			}
			actions, err := uc.actionRepo.ListByAccount(ctx, account.ID)
			if err != nil {
				return nil, domain.NewActionError(err, rawAmount, ids...)
			}
			targets[i] = domain.ResolveRefundTargets(actions, uc.targetOrder)
		}
	}

	plan, err := uc.plan(t, accounts, targets, rawAmount, bulk)
	if err != nil {
		return nil, domain.NewActionError(err, rawAmount, ids...)
	}

	limit := domain.ZeroMoney
	for i, account := range accounts {
		if t == domain.ActionTypeRefund {
			limit = limit.Add(domain.TotalCapacity(plan.targets[i]))
		} else {
			limit = limit.Add(account.Remaining)
		}
	}

	return &CheckResult{
		AccountIDs:      ids,
		Amount:          plan.amount,
		RemainingAmount: limit.Subtract(plan.amount),
	}, nil
}

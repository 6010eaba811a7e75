package usecase

import (
	"context"

	"github.com/iho/feefines/internal/domain"
)

// BulkActionInput represents one request spanning several fees/fines.
type BulkActionInput struct {
	AccountIDs []string
	Amount     string
	Metadata   domain.ActionMetadata
}

// ApplyBulk applies one action across several fees/fines. Either every account is
// updated or none is.
func (uc *ActionUseCase) ApplyBulk(ctx context.Context, t domain.ActionType, input BulkActionInput) (*ActionResult, error) {
	if t == domain.ActionTypeCancel {
		return nil, uc.reject(t, domain.NewActionError(domain.ErrUnsupportedAction, input.Amount, input.AccountIDs...))
	}
	if len(uniqueIDs(input.AccountIDs)) > MaxBulkAccounts {
		return nil, uc.reject(t, domain.NewActionError(domain.ErrTooManyAccounts, input.Amount))
	}
	return uc.execute(ctx, t, input.AccountIDs, input.Amount, input.Metadata, true)
}

// PayBulk pays several fees/fines in input order.
func (uc *ActionUseCase) PayBulk(ctx context.Context, input BulkActionInput) (*ActionResult, error) {
	return uc.ApplyBulk(ctx, domain.ActionTypePay, input)
}

// WaiveBulk waives several fees/fines in input order.
func (uc *ActionUseCase) WaiveBulk(ctx context.Context, input BulkActionInput) (*ActionResult, error) {
	return uc.ApplyBulk(ctx, domain.ActionTypeWaive, input)
}

// TransferBulk transfers several fees/fines in input order.
func (uc *ActionUseCase) TransferBulk(ctx context.Context, input BulkActionInput) (*ActionResult, error) {
	return uc.ApplyBulk(ctx, domain.ActionTypeTransfer, input)
}

// RefundBulk refunds several fees/fines, splitting the amount fairly between them.
func (uc *ActionUseCase) RefundBulk(ctx context.Context, input BulkActionInput) (*ActionResult, error) {
	return uc.ApplyBulk(ctx, domain.ActionTypeRefund, input)
}

type actionPlan struct {
	amount  domain.MonetaryValue
	shares  []domain.MonetaryValue
	targets [][]domain.RefundTarget
}

// plan validates the request and computes each account's share without side effects.
func (uc *ActionUseCase) plan(
	t domain.ActionType,
	accounts []*domain.Account,
	targets [][]domain.RefundTarget,
	rawAmount string,
	bulk bool,
) (*actionPlan, error) {
	refundable := make([]domain.MonetaryValue, len(accounts))
	for i := range targets {
		refundable[i] = domain.TotalCapacity(targets[i])
	}

	var (
		amount domain.MonetaryValue
		err    error
	)
	if bulk {
		amount, err = domain.ValidateBulkAction(t, accounts, rawAmount, refundable)
	} else {
		amount, err = domain.ValidateAction(t, accounts[0], rawAmount, refundable[0])
	}
	if err != nil {
		return nil, err
	}

	p := &actionPlan{amount: amount, targets: targets}

	switch t {
	case domain.ActionTypeCancel:
		p.shares = make([]domain.MonetaryValue, len(accounts))
		for i, a := range accounts {
			p.shares[i] = a.Remaining
		}

	case domain.ActionTypeRefund:
		alloc, err := domain.AllocateFairShare(amount, refundable)
		if err != nil {
			if !bulk {
				return nil, domain.ErrNoRefundableAmount
			}
			return nil, err
		}
		uc.observer.RefundAllocated(len(accounts), alloc.Passes)
		p.shares = alloc.Amounts

	default:
		remaining := make([]domain.MonetaryValue, len(accounts))
		for i, a := range accounts {
			remaining[i] = a.Remaining
		}
		alloc, err := domain.DistributeWaterfall(amount, remaining)
		if err != nil {
			return nil, err
		}
		p.shares = alloc.Amounts
	}

	return p, nil
}

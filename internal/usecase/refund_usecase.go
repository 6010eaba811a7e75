package usecase

import (
	"context"
	"time"

	"github.com/iho/feefines/internal/domain"
)

// RefundTargets returns the refundable groups of an account in processing order.
func (uc *ActionUseCase) RefundTargets(ctx context.Context, accountID string) ([]domain.RefundTarget, error) {
	if err := domain.ValidateRequiredID("accountId", accountID); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	actions, err := uc.actionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return domain.ResolveRefundTargets(actions, uc.targetOrder), nil
}

// loadTargets resolves refund targets for every present account inside tx.
func (uc *ActionUseCase) loadTargets(ctx context.Context, tx Transaction, accounts []*domain.Account) ([][]domain.RefundTarget, error) {
	targets := make([][]domain.RefundTarget, len(accounts))
	for i, account := range accounts {
		if account == nil {
			continue
		}
		actions, err := uc.actionRepo.ListByAccountTx(ctx, tx, account.ID)
		if err != nil {
			return nil, err
		}
		targets[i] = domain.ResolveRefundTargets(actions, uc.targetOrder)
	}
	return targets, nil
}

// decomposeRefund splits amount across the account's targets and emits a CREDIT and
// REFUND pair per target touched. The account is updated in place.
func (uc *ActionUseCase) decomposeRefund(
	account *domain.Account,
	targets []domain.RefundTarget,
	amount domain.MonetaryValue,
	meta domain.ActionMetadata,
	now time.Time,
	seq *int64,
) ([]*domain.Action, error) {
	if err := account.ValidateCredit(amount); err != nil {
		return nil, err
	}

	// Full when the refund uses up everything the account could still give back.
	full := amount.Equal(domain.TotalCapacity(targets))

	left := amount
	running := account.Remaining

	var actions []*domain.Action
	for _, target := range targets {
		if !left.IsPositive() {
			break
		}

		take := left.Min(target.Capacity)
		if !take.IsPositive() {
			continue
		}

		*seq++
		actions = append(actions, uc.refundStep(account, domain.ActionTypeCredit, full, take,
			running.Subtract(take), target.CreditInformation(), target, meta, now, *seq))

		*seq++
		actions = append(actions, uc.refundStep(account, domain.ActionTypeRefund, full, take,
			running.Add(take), target.RefundInformation(), target, meta, now, *seq))

		running = running.Add(take)
		left = left.Subtract(take)
	}

	if left.IsPositive() {
		return nil, domain.ErrNoRefundableAmount
	}

	account.ApplyRefund(amount, full, now)

	return actions, nil
}

func (uc *ActionUseCase) refundStep(
	account *domain.Account,
	t domain.ActionType,
	full bool,
	amount, balance domain.MonetaryValue,
	info string,
	target domain.RefundTarget,
	meta domain.ActionMetadata,
	now time.Time,
	seq int64,
) *domain.Action {
	return &domain.Action{
		ID:                     uc.idGen.Generate(),
		AccountID:              account.ID,
		UserID:                 account.UserID,
		TypeAction:             t.Label(full),
		AmountAction:           amount,
		Balance:                balance,
		PaymentMethod:          target.PaymentMethod,
		TransactionInformation: info,
		Comments:               meta.Comments,
		Source:                 meta.UserName,
		CreatedAt:              meta.ServicePointID,
		NotifyPatron:           meta.NotifyPatron,
		DateAction:             now,
		Sequence:               seq,
	}
}

// applyRefund persists the decomposition of one account's share.
func (uc *ActionUseCase) applyRefund(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	targets []domain.RefundTarget,
	amount domain.MonetaryValue,
	meta domain.ActionMetadata,
	now time.Time,
	seq *int64,
) ([]*domain.Action, error) {
	actions, err := uc.decomposeRefund(account, targets, amount, meta, now, seq)
	if err != nil {
		return nil, err
	}

	for _, action := range actions {
		if err := uc.actionRepo.Create(ctx, tx, action); err != nil {
			return nil, err
		}
	}

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, err
	}

	return actions, nil
}

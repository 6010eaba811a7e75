package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

func TestActionUseCase_Refund_PaidPortionOfClosedAccount(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "6.00")
	f.post("ff-1", domain.ActionTypePay, "5.00", "Cash", 1)
	f.post("ff-1", domain.ActionTypeWaive, "1.00", "", 2)
	require.True(t, f.accounts.Get("ff-1").IsClosed())

	result, err := f.uc.Refund(context.Background(), usecase.ActionInput{
		AccountID: "ff-1",
		Amount:    "5.0",
		Metadata:  domain.ActionMetadata{Comments: "returned item found", UserName: "jdoe"},
	})
	require.NoError(t, err)

	require.Len(t, result.Actions, 2)
	credit, refund := result.Actions[0], result.Actions[1]

	assert.Equal(t, "Credited fully", credit.TypeAction)
	assert.Equal(t, "5.00", credit.AmountAction.String())
	assert.Equal(t, "-5.00", credit.Balance.String())
	assert.Equal(t, "Refund to patron", credit.TransactionInformation)
	assert.Equal(t, "Cash", credit.PaymentMethod)

	assert.Equal(t, "Refunded fully", refund.TypeAction)
	assert.Equal(t, "5.00", refund.AmountAction.String())
	assert.Equal(t, "5.00", refund.Balance.String())
	assert.Equal(t, "Refunded to patron", refund.TransactionInformation)
	assert.Equal(t, "returned item found", refund.Comments)

	stored := f.accounts.Get("ff-1")
	assert.Equal(t, "5.00", stored.Remaining.String())
	assert.Equal(t, domain.AccountStatusOpen, stored.Status)
	assert.Equal(t, "Refunded fully", stored.PaymentStatus)
}

func TestActionUseCase_Refund_SplitsAcrossTargetsInOrder(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")
	f.post("ff-1", domain.ActionTypeTransfer, "4.00", "Bursar", 1)
	f.post("ff-1", domain.ActionTypePay, "3.00", "Cash", 2)
	f.post("ff-1", domain.ActionTypePay, "2.00", "Card", 3)

	result, err := f.uc.Refund(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "8"})
	require.NoError(t, err)

	type step struct {
		label, method, amount, balance, info string
	}
	want := []step{
		{"Credited partially", "Cash", "3.00", "-2.00", "Refund to patron"},
		{"Refunded partially", "Cash", "3.00", "4.00", "Refunded to patron"},
		{"Credited partially", "Card", "2.00", "2.00", "Refund to patron"},
		{"Refunded partially", "Card", "2.00", "6.00", "Refunded to patron"},
		{"Credited partially", "Bursar", "3.00", "3.00", "Refund to Bursar"},
		{"Refunded partially", "Bursar", "3.00", "9.00", "Refunded to Bursar"},
	}

	require.Len(t, result.Actions, len(want))
	for i, w := range want {
		got := result.Actions[i]
		assert.Equal(t, w.label, got.TypeAction, "step %d", i)
		assert.Equal(t, w.method, got.PaymentMethod, "step %d", i)
		assert.Equal(t, w.amount, got.AmountAction.String(), "step %d", i)
		assert.Equal(t, w.balance, got.Balance.String(), "step %d", i)
		assert.Equal(t, w.info, got.TransactionInformation, "step %d", i)
	}

	assert.Equal(t, "8.00", refundsTotal(result.Actions).String())
	assert.Equal(t, "9.00", f.accounts.Get("ff-1").Remaining.String())
	assert.Equal(t, "Refunded partially", f.accounts.Get("ff-1").PaymentStatus)

	actions, err := f.actions.ListByAccount(context.Background(), "ff-1")
	require.NoError(t, err)
	assert.Empty(t, domain.ReplayActions(money("10.00"), actions).Mismatches)
}

func TestActionUseCase_Refund_PriorRefundsReduceCapacity(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")
	f.post("ff-1", domain.ActionTypePay, "5.00", "Cash", 1)

	ctx := context.Background()
	_, err := f.uc.Refund(ctx, usecase.ActionInput{AccountID: "ff-1", Amount: "2.00"})
	require.NoError(t, err)

	targets, err := f.uc.RefundTargets(ctx, "ff-1")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, domain.RefundCategoryPaid, targets[0].Category)
	assert.Equal(t, "3.00", targets[0].Capacity.String())

	_, err = f.uc.Refund(ctx, usecase.ActionInput{AccountID: "ff-1", Amount: "3.01"})
	require.ErrorIs(t, err, domain.ErrNoRefundableAmount)

	_, err = f.uc.Refund(ctx, usecase.ActionInput{AccountID: "ff-1", Amount: "3.00"})
	require.NoError(t, err)

	stored := f.accounts.Get("ff-1")
	assert.Equal(t, "10.00", stored.Remaining.String())
	assert.Equal(t, "Refunded fully", stored.PaymentStatus)
}

func TestActionUseCase_Refund_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		waived  bool
		wantErr error
	}{
		{"exceeds capacity", "5.01", false, domain.ErrNoRefundableAmount},
		{"zero amount", "0", false, domain.ErrNoRefundableAmount},
		{"only waived on record", "1.00", true, domain.ErrNoRefundableAmount},
		{"unparsable amount", "five", false, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.charge("ff-1", "10.00")
			if tt.waived {
				f.post("ff-1", domain.ActionTypeWaive, "10.00", "", 1)
			} else {
				f.post("ff-1", domain.ActionTypePay, "3.00", "Cash", 1)
				f.post("ff-1", domain.ActionTypeTransfer, "2.00", "Bursar", 2)
			}
			before := f.actions.Count("ff-1")

			_, err := f.uc.Refund(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: tt.amount})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.Equal(t, before, f.actions.Count("ff-1"))
		})
	}
}

func TestActionUseCase_Refund_ErrorMessage(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")

	_, err := f.uc.Refund(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "1.00"})

	var actionErr *domain.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "Refund amount must be greater than zero and less than or equal to Selected amount", actionErr.Message())
}

func TestActionUseCase_RefundTargets_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RefundTargets(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = f.uc.RefundTargets(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

package usecase_test

import (
	"testing"
	"time"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
	"github.com/iho/feefines/internal/usecase/mocks"
)

var (
	chargedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	appliedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	txMgr    *mocks.MockTransactionManager
	accounts *mocks.MockAccountRepository
	actions  *mocks.MockActionRepository
	idGen    *mocks.MockIDGenerator
	retrier  *mocks.MockRetrier
	uc       *usecase.ActionUseCase
}

func newFixture(t *testing.T, customize ...func(*usecase.ActionUseCaseConfig)) *fixture {
	t.Helper()

	f := &fixture{
		txMgr:    mocks.NewMockTransactionManager(),
		accounts: mocks.NewMockAccountRepository(),
		actions:  mocks.NewMockActionRepository(),
		idGen:    mocks.NewMockIDGenerator(),
		retrier:  &mocks.MockRetrier{MaxAttempts: 3},
	}

	cfg := usecase.ActionUseCaseConfig{
		TxManager:   f.txMgr,
		AccountRepo: f.accounts,
		ActionRepo:  f.actions,
		IDGen:       f.idGen,
		Retrier:     f.retrier,
		Clock:       func() time.Time { return appliedAt },
	}
	for _, fn := range customize {
		fn(&cfg)
	}

	f.uc = usecase.NewActionUseCase(cfg)
	return f
}

func money(s string) domain.MonetaryValue {
	return domain.MustParseMonetaryValue(s)
}

// charge seeds an open account and its CHARGE action.
func (f *fixture) charge(id, amount string) *domain.Account {
	a := &domain.Account{
		ID:            id,
		UserID:        "patron-1",
		FeeFineTypeID: "overdue",
		OwnerID:       "owner-1",
		Amount:        money(amount),
		Remaining:     money(amount),
		Status:        domain.AccountStatusOpen,
		PaymentStatus: "Outstanding",
		CreatedAt:     chargedAt,
		UpdatedAt:     chargedAt,
	}
	f.accounts.Seed(a)
	f.actions.Seed(&domain.Action{
		ID:           id + "-charge",
		AccountID:    id,
		UserID:       a.UserID,
		TypeAction:   "Outstanding",
		AmountAction: a.Amount,
		Balance:      a.Amount,
		DateAction:   chargedAt,
	})
	return a
}

// post seeds a prior debit on an account and keeps its remaining in step.
func (f *fixture) post(id string, t domain.ActionType, amount, method string, minute int) {
	a := f.accounts.Get(id)
	full := a.ApplyDebit(t, money(amount), chargedAt)
	f.accounts.Seed(a)
	f.actions.Seed(&domain.Action{
		ID:            id + "-" + string(t) + "-" + method,
		AccountID:     id,
		UserID:        a.UserID,
		TypeAction:    t.Label(full),
		AmountAction:  money(amount),
		Balance:       a.Remaining,
		PaymentMethod: method,
		DateAction:    chargedAt.Add(time.Duration(minute) * time.Minute),
	})
}

func refundsTotal(actions []*domain.Action) domain.MonetaryValue {
	total := domain.ZeroMoney
	for _, a := range actions {
		if a.Type() == domain.ActionTypeRefund {
			total = total.Add(a.AmountAction)
		}
	}
	return total
}

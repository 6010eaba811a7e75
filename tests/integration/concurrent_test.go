package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
	"github.com/iho/feefines/tests/testutil"
)

func TestConcurrentPaymentsNeverOverpay(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	engine := testDB.NewEngine()
	testDB.TruncateAll(ctx)

	account := testDB.Charge(ctx, engine, "10.00")

	const payments = 20

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)

	wg.Add(payments)
	for range payments {
		go func() {
			defer wg.Done()

			_, err := engine.Actions.Pay(ctx, usecase.ActionInput{
				AccountID: account.ID,
				Amount:    "1.00",
				Metadata:  domain.ActionMetadata{PaymentMethod: "Cash"},
			})
			if err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := succeeded.Load(); got != 10 {
		t.Fatalf("expected exactly 10 payments to succeed, got %d", got)
	}

	stored, err := engine.Accounts.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !stored.Remaining.IsZero() || stored.Status != domain.AccountStatusClosed {
		t.Fatalf("expected fully paid fee/fine, got %s %s", stored.Remaining, stored.Status)
	}

	rec, err := engine.Reconciliation.ReconcileAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !rec.IsReconciled {
		t.Fatalf("expected consistent ledger, got %+v", rec)
	}
}

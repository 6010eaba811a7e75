package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

func TestReconciliationUseCase_ReconcileAccount(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")
	f.post("ff-1", domain.ActionTypePay, "6.00", "Cash", 1)

	if _, err := f.uc.Refund(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "2.50"}); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	uc := usecase.NewReconciliationUseCase(f.accounts, f.actions)
	result, err := uc.ReconcileAccount(context.Background(), "ff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsReconciled {
		t.Errorf("expected reconciled, got mismatches %v and difference %s",
			result.Mismatches, result.Difference)
	}
	if result.ReplayedBalance.String() != "6.50" {
		t.Errorf("expected replayed 6.50, got %s", result.ReplayedBalance)
	}
}

func TestReconciliationUseCase_DetectsDrift(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")
	f.post("ff-1", domain.ActionTypePay, "6.00", "Cash", 1)

	// Remaining edited outside the ledger.
	drifted := f.accounts.Get("ff-1")
	drifted.Remaining = money("5.00")
	f.accounts.Seed(drifted)

	uc := usecase.NewReconciliationUseCase(f.accounts, f.actions)
	result, err := uc.ReconcileAccount(context.Background(), "ff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsReconciled {
		t.Fatal("expected drift to be reported")
	}
	if result.Difference.String() != "1.00" {
		t.Errorf("expected difference 1.00, got %s", result.Difference)
	}
}

func TestReconciliationUseCase_GenerateReport(t *testing.T) {
	f := newFixture(t)
	f.charge("ff-1", "10.00")
	f.charge("ff-2", "4.00")
	f.actions.Seed(&domain.Action{
		ID:           "bad",
		AccountID:    "ff-2",
		TypeAction:   "Paid partially",
		AmountAction: money("1.00"),
		Balance:      money("2.00"),
		DateAction:   chargedAt.Add(1),
	})

	uc := usecase.NewReconciliationUseCase(f.accounts, f.actions)
	report, err := uc.GenerateReconciliationReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAccounts != 2 || report.ReconciledAccounts != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Discrepancies) != 1 || report.Discrepancies[0].AccountID != "ff-2" {
		t.Fatalf("expected ff-2 to be reported, got %+v", report.Discrepancies)
	}
	if len(report.Discrepancies[0].Mismatches) != 1 || report.Discrepancies[0].Mismatches[0].ActionID != "bad" {
		t.Errorf("unexpected mismatches %v", report.Discrepancies[0].Mismatches)
	}
}

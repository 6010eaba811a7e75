package dto

import (
	"encoding/json"
	"testing"

	"github.com/iho/feefines/internal/domain"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{name: "string", input: `"1.23987654321"`, want: "1.23987654321"},
		{name: "number", input: `12.5`, want: "12.5"},
		{name: "null", input: `null`, want: ""},
		{name: "free-form string kept for the engine", input: `"abc"`, want: "abc"},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Amount
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionRequest_ToUseCaseInput(t *testing.T) {
	var req ActionRequest
	body := `{"amount":"3.00","paymentMethod":"Cash","notifyPatron":true,"servicePointId":"sp-1",
		"userName":"circdesk","comments":"at desk","transactionInfo":"receipt 42"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	got := req.ToUseCaseInput("ff-1")
	want := domain.ActionMetadata{
		PaymentMethod:   "Cash",
		TransactionInfo: "receipt 42",
		Comments:        "at desk",
		NotifyPatron:    true,
		UserName:        "circdesk",
		ServicePointID:  "sp-1",
	}

	if got.AccountID != "ff-1" || got.Amount != "3.00" || got.Metadata != want {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestBulkActionRequest_FlattensActionFields(t *testing.T) {
	var req BulkActionRequest
	body := `{"accountIds":["ff-1","ff-2"],"amount":15,"paymentMethod":"Cash"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	got := req.ToUseCaseInput()
	if len(got.AccountIDs) != 2 || got.AccountIDs[1] != "ff-2" {
		t.Fatalf("unexpected account IDs %v", got.AccountIDs)
	}
	if got.Amount != "15" || got.Metadata.PaymentMethod != "Cash" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	loan := "loan-1"
	req := &CreateAccountRequest{
		UserID:        "patron-1",
		FeeFineTypeID: "overdue",
		FeeFineType:   "Overdue fine",
		OwnerID:       "owner-1",
		FeeFineOwner:  "Main library",
		LoanID:        &loan,
		Amount:        "10.00",
		UserName:      "circdesk",
	}

	got := req.ToUseCaseInput()
	if got.UserID != "patron-1" || got.FeeFineType != "Overdue fine" || got.Amount != "10.00" {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.LoanID == nil || *got.LoanID != "loan-1" || got.Metadata.UserName != "circdesk" {
		t.Fatalf("expected loan and metadata to be carried, got %+v", got)
	}
}

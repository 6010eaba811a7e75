package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

// Amount is a monetary amount sent either as a JSON string or a JSON number.
// It is kept as text; parsing and rounding happen in the engine.
type Amount string

// UnmarshalJSON accepts "1.23" and 1.23.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// ActionRequest is the body of a pay, waive, transfer, cancel or refund request.
type ActionRequest struct {
	Amount          Amount `json:"amount"`
	PaymentMethod   string `json:"paymentMethod"`
	NotifyPatron    bool   `json:"notifyPatron"`
	ServicePointID  string `json:"servicePointId"`
	UserName        string `json:"userName"`
	Comments        string `json:"comments"`
	TransactionInfo string `json:"transactionInfo"`
}

// Metadata returns the provenance recorded on every resulting action.
func (r *ActionRequest) Metadata() domain.ActionMetadata {
	return domain.ActionMetadata{
		PaymentMethod:   r.PaymentMethod,
		TransactionInfo: r.TransactionInfo,
		Comments:        r.Comments,
		NotifyPatron:    r.NotifyPatron,
		UserName:        r.UserName,
		ServicePointID:  r.ServicePointID,
	}
}

// ToUseCaseInput converts to use case input for one fee/fine.
func (r *ActionRequest) ToUseCaseInput(accountID string) usecase.ActionInput {
	return usecase.ActionInput{
		AccountID: accountID,
		Amount:    string(r.Amount),
		Metadata:  r.Metadata(),
	}
}

// BulkActionRequest is an ActionRequest spanning several fees/fines.
type BulkActionRequest struct {
	ActionRequest

	AccountIDs []string `json:"accountIds"`
}

// ToUseCaseInput converts to bulk use case input.
func (r *BulkActionRequest) ToUseCaseInput() usecase.BulkActionInput {
	return usecase.BulkActionInput{
		AccountIDs: r.AccountIDs,
		Amount:     string(r.Amount),
		Metadata:   r.Metadata(),
	}
}

// CreateAccountRequest charges a patron.
type CreateAccountRequest struct {
	UserID         string  `json:"userId"`
	FeeFineTypeID  string  `json:"feeFineId"`
	FeeFineType    string  `json:"feeFineType"`
	OwnerID        string  `json:"ownerId"`
	FeeFineOwner   string  `json:"feeFineOwner"`
	LoanID         *string `json:"loanId,omitempty"`
	Amount         Amount  `json:"amount"`
	UserName       string  `json:"userName"`
	ServicePointID string  `json:"servicePointId"`
	Comments       string  `json:"comments"`
	NotifyPatron   bool    `json:"notifyPatron"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID:        r.UserID,
		FeeFineTypeID: r.FeeFineTypeID,
		FeeFineType:   r.FeeFineType,
		OwnerID:       r.OwnerID,
		FeeFineOwner:  r.FeeFineOwner,
		LoanID:        r.LoanID,
		Amount:        string(r.Amount),
		Metadata: domain.ActionMetadata{
			Comments:       r.Comments,
			NotifyPatron:   r.NotifyPatron,
			UserName:       r.UserName,
			ServicePointID: r.ServicePointID,
		},
	}
}

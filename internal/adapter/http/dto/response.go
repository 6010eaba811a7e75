package dto

import (
	"errors"
	"time"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

// AccountResponse represents a fee/fine in API responses.
type AccountResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	FeeFineTypeID string               `json:"feeFineId"`
	FeeFineType   string               `json:"feeFineType"`
	OwnerID       string               `json:"ownerId"`
	FeeFineOwner  string               `json:"feeFineOwner"`
	LoanID        *string              `json:"loanId,omitempty"`
	Amount        domain.MonetaryValue `json:"amount"`
	Remaining     domain.MonetaryValue `json:"remaining"`
	Status        StatusName           `json:"status"`
	PaymentStatus StatusName           `json:"paymentStatus"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// StatusName wraps a status the way fee/fine clients expect it.
type StatusName struct {
	Name string `json:"name"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		FeeFineTypeID: a.FeeFineTypeID,
		FeeFineType:   a.FeeFineType,
		OwnerID:       a.OwnerID,
		FeeFineOwner:  a.FeeFineOwner,
		LoanID:        a.LoanID,
		Amount:        a.Amount,
		Remaining:     a.Remaining,
		Status:        StatusName{Name: string(a.Status)},
		PaymentStatus: StatusName{Name: a.PaymentStatus},
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse is a page of fees/fines.
type ListAccountsResponse struct {
	Accounts     []*AccountResponse `json:"accounts"`
	TotalRecords int                `json:"totalRecords"`
}

// ActionResponse represents one feefineaction.
type ActionResponse struct {
	ID                     string               `json:"id"`
	AccountID              string               `json:"accountId"`
	UserID                 string               `json:"userId"`
	TypeAction             string               `json:"typeAction"`
	AmountAction           domain.MonetaryValue `json:"amountAction"`
	Balance                domain.MonetaryValue `json:"balance"`
	PaymentMethod          string               `json:"paymentMethod,omitempty"`
	TransactionInformation string               `json:"transactionInformation,omitempty"`
	Comments               string               `json:"comments,omitempty"`
	Source                 string               `json:"source,omitempty"`
	CreatedAt              string               `json:"createdAt,omitempty"`
	NotifyPatron           bool                 `json:"notify"`
	DateAction             time.Time            `json:"dateAction"`
}

// ActionFromDomain converts a domain action to response.
func ActionFromDomain(a *domain.Action) *ActionResponse {
	return &ActionResponse{
		ID:                     a.ID,
		AccountID:              a.AccountID,
		UserID:                 a.UserID,
		TypeAction:             a.TypeAction,
		AmountAction:           a.AmountAction,
		Balance:                a.Balance,
		PaymentMethod:          a.PaymentMethod,
		TransactionInformation: a.TransactionInformation,
		Comments:               a.Comments,
		Source:                 a.Source,
		CreatedAt:              a.CreatedAt,
		NotifyPatron:           a.NotifyPatron,
		DateAction:             a.DateAction,
	}
}

// ActionsFromDomain converts domain actions to responses.
func ActionsFromDomain(actions []*domain.Action) []*ActionResponse {
	result := make([]*ActionResponse, len(actions))
	for i, a := range actions {
		result[i] = ActionFromDomain(a)
	}
	return result
}

// ActionResultResponse is returned by pay, waive, transfer, cancel and refund.
type ActionResultResponse struct {
	AccountIDs      []string             `json:"accountIds"`
	Amount          domain.MonetaryValue `json:"amount"`
	RemainingAmount domain.MonetaryValue `json:"remainingAmount"`
	FeeFineActions  []*ActionResponse    `json:"feefineactions"`
	Accounts        []*AccountResponse   `json:"accounts"`
}

// ActionResultFromUseCase converts an action result to response.
func ActionResultFromUseCase(r *usecase.ActionResult) *ActionResultResponse {
	return &ActionResultResponse{
		AccountIDs:      r.AccountIDs,
		Amount:          r.Amount,
		RemainingAmount: r.RemainingAmount,
		FeeFineActions:  ActionsFromDomain(r.Actions),
		Accounts:        AccountsFromDomain(r.Accounts),
	}
}

// CheckResponse is returned by the check-* endpoints.
type CheckResponse struct {
	AccountIDs      []string             `json:"accountIds"`
	Amount          domain.MonetaryValue `json:"amount"`
	RemainingAmount domain.MonetaryValue `json:"remainingAmount"`
}

// CheckFromUseCase converts a check result to response.
func CheckFromUseCase(r *usecase.CheckResult) *CheckResponse {
	return &CheckResponse{
		AccountIDs:      r.AccountIDs,
		Amount:          r.Amount,
		RemainingAmount: r.RemainingAmount,
	}
}

// RefundTargetResponse is one prior debit a refund may return money to.
type RefundTargetResponse struct {
	Category        domain.RefundCategory `json:"category"`
	PaymentMethod   string                `json:"paymentMethod"`
	Destination     string                `json:"destination"`
	Posted          domain.MonetaryValue  `json:"posted"`
	AlreadyRefunded domain.MonetaryValue  `json:"alreadyRefunded"`
	Capacity        domain.MonetaryValue  `json:"capacity"`
}

// RefundTargetsFromDomain converts refund targets to responses.
func RefundTargetsFromDomain(targets []domain.RefundTarget) []*RefundTargetResponse {
	result := make([]*RefundTargetResponse, len(targets))
	for i, t := range targets {
		result[i] = &RefundTargetResponse{
			Category:        t.Category,
			PaymentMethod:   t.PaymentMethod,
			Destination:     t.Destination(),
			Posted:          t.Posted,
			AlreadyRefunded: t.AlreadyRefunded,
			Capacity:        t.Capacity,
		}
	}
	return result
}

// ReconciliationResponse is the replay check of one fee/fine.
type ReconciliationResponse struct {
	AccountID         string               `json:"accountId"`
	RecordedRemaining domain.MonetaryValue `json:"recordedRemaining"`
	ReplayedBalance   domain.MonetaryValue `json:"replayedBalance"`
	Difference        domain.MonetaryValue `json:"difference"`
	Mismatches        []string             `json:"mismatches,omitempty"`
	IsReconciled      bool                 `json:"isReconciled"`
	LastChecked       time.Time            `json:"lastChecked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedRemaining: r.RecordedRemaining,
		ReplayedBalance:   r.ReplayedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
	for _, m := range r.Mismatches {
		resp.Mismatches = append(resp.Mismatches, m.String())
	}
	return resp
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"totalAccounts"`
	ReconciledAccounts int                       `json:"reconciledAccounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checkedAt"`
}

// ReconciliationReportFromUseCase converts a report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*ReconciliationResponse, 0, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, ReconciliationFromUseCase(d))
	}
	return resp
}

// ErrorResponse represents an error in API responses. Action failures also
// carry the fee/fine IDs and the normalized amount of the request.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	AccountIDs []string `json:"accountIds,omitempty"`
	Amount     string   `json:"amount,omitempty"`
}

// ErrorFromAction builds the body for a failed action.
func ErrorFromAction(code string, err error) ErrorResponse {
	resp := ErrorResponse{Error: code, Message: err.Error()}

	var actionErr *domain.ActionError
	if errors.As(err, &actionErr) {
		resp.Message = actionErr.Message()
		resp.AccountIDs = actionErr.AccountIDs
		resp.Amount = actionErr.Amount
	}
	return resp
}

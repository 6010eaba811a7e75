package domain

import "time"

// Event types
const (
	EventTypeBalanceChanged = "feefine.balance.changed"
	EventTypeLoanClosed     = "feefine.loan.closed"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
)

// Event is a notification published after a ledger mutation commits.
type Event struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       any
	CreatedAt     time.Time
}

// BalanceChangedEvent payload
type BalanceChangedEvent struct {
	UserID        string  `json:"userId"`
	FeeFineID     string  `json:"feeFineId"`
	FeeFineTypeID string  `json:"feeFineTypeId"`
	Balance       string  `json:"balance"`
	LoanID        *string `json:"loanId,omitempty"`
}

// LoanClosedEvent payload
type LoanClosedEvent struct {
	LoanID    string `json:"loanId"`
	FeeFineID string `json:"feeFineId"`
}

// EventsForAccount builds the notifications owed for a mutated account.
func EventsForAccount(a *Account, newID func() string, now time.Time) []*Event {
	events := []*Event{{
		ID:            newID(),
		AggregateID:   a.ID,
		AggregateType: AggregateTypeAccount,
		EventType:     EventTypeBalanceChanged,
		Payload: BalanceChangedEvent{
			UserID:        a.UserID,
			FeeFineID:     a.ID,
			FeeFineTypeID: a.FeeFineTypeID,
			Balance:       a.Remaining.String(),
			LoanID:        a.LoanID,
		},
		CreatedAt: now,
	}}

	if a.HasLoan() && a.IsClosed() {
		events = append(events, &Event{
			ID:            newID(),
			AggregateID:   a.ID,
			AggregateType: AggregateTypeAccount,
			EventType:     EventTypeLoanClosed,
			Payload: LoanClosedEvent{
				LoanID:    *a.LoanID,
				FeeFineID: a.ID,
			},
			CreatedAt: now,
		})
	}

	return events
}

package domain

import (
	"time"
)

// AccountStatus is the lifecycle state of a fee/fine.
type AccountStatus string

const (
	AccountStatusOpen   AccountStatus = "Open"
	AccountStatusClosed AccountStatus = "Closed"
)

// Account represents one charge owed by a patron.
type Account struct {
	ID            string
	UserID        string
	FeeFineTypeID string
	FeeFineType   string
	OwnerID       string
	FeeFineOwner  string
	LoanID        *string
	Amount        MonetaryValue
	Remaining     MonetaryValue
	Status        AccountStatus
	PaymentStatus string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsClosed reports whether the account is closed with nothing left to pay.
func (a *Account) IsClosed() bool {
	return a.Status == AccountStatusClosed && a.Remaining.IsZero()
}

// HasLoan reports whether the account is linked to a loan.
func (a *Account) HasLoan() bool {
	return a.LoanID != nil && *a.LoanID != ""
}

// ValidateDebit checks if amount can be taken off the remaining balance.
func (a *Account) ValidateDebit(amount MonetaryValue) error {
	if amount.GreaterThan(a.Remaining) {
		return ErrExceedsRemaining
	}
	return nil
}

// ValidateCredit checks if amount can be added back to the remaining balance.
func (a *Account) ValidateCredit(amount MonetaryValue) error {
	if a.Remaining.Add(amount).GreaterThan(a.Amount) {
		return ErrExceedsCharged
	}
	return nil
}

// ApplyDebit lowers the remaining balance and updates status and payment status.
// It returns true when the debit brought the balance to zero.
func (a *Account) ApplyDebit(t ActionType, amount MonetaryValue, now time.Time) bool {
	a.Remaining = a.Remaining.Subtract(amount)
	full := a.Remaining.IsZero()

	a.PaymentStatus = t.Label(full)
	if full {
		a.Status = AccountStatusClosed
	} else {
		a.Status = AccountStatusOpen
	}

	a.UpdatedAt = now
	return full
}

// ApplyRefund raises the remaining balance, reopening a closed account when needed.
func (a *Account) ApplyRefund(amount MonetaryValue, full bool, now time.Time) {
	a.Remaining = a.Remaining.Add(amount)
	a.PaymentStatus = ActionTypeRefund.Label(full)
	if a.Remaining.IsPositive() {
		a.Status = AccountStatusOpen
	}
	a.UpdatedAt = now
}

// Clone returns a copy safe to mutate during validation.
func (a *Account) Clone() *Account {
	c := *a
	if a.LoanID != nil {
		loanID := *a.LoanID
		c.LoanID = &loanID
	}
	return &c
}

package domain

import (
	"strings"
	"time"
)

// ActionType is the kind of monetary event recorded against an account.
type ActionType string

const (
	ActionTypeCharge   ActionType = "charge"
	ActionTypePay      ActionType = "pay"
	ActionTypeWaive    ActionType = "waive"
	ActionTypeTransfer ActionType = "transfer"
	ActionTypeCancel   ActionType = "cancel"
	ActionTypeCredit   ActionType = "credit"
	ActionTypeRefund   ActionType = "refund"
)

type actionLabels struct {
	full    string
	partial string
}

var labelsByType = map[ActionType]actionLabels{
	ActionTypeCharge:   {full: "Outstanding", partial: "Outstanding"},
	ActionTypePay:      {full: "Paid fully", partial: "Paid partially"},
	ActionTypeWaive:    {full: "Waived fully", partial: "Waived partially"},
	ActionTypeTransfer: {full: "Transferred fully", partial: "Transferred partially"},
	ActionTypeCancel:   {full: "Cancelled as error", partial: "Cancelled as error"},
	ActionTypeCredit:   {full: "Credited fully", partial: "Credited partially"},
	ActionTypeRefund:   {full: "Refunded fully", partial: "Refunded partially"},
}

// ParseActionType parses an action type from its name, e.g. "pay".
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := labelsByType[t]; !ok {
		return "", ErrUnsupportedAction
	}
	return t, nil
}

// Label returns the human-readable typeAction for a full or partial result.
func (t ActionType) Label(full bool) string {
	l := labelsByType[t]
	if full {
		return l.full
	}
	return l.partial
}

// IsDebit reports whether the action lowers the remaining balance.
func (t ActionType) IsDebit() bool {
	switch t {
	case ActionTypePay, ActionTypeWaive, ActionTypeTransfer, ActionTypeCancel:
		return true
	}
	return false
}

// ActionTypeFromLabel maps a stored typeAction label back to its type.
func ActionTypeFromLabel(label string) (ActionType, bool) {
	for t, l := range labelsByType {
		if l.full == label || l.partial == label {
			return t, true
		}
	}
	return "", false
}

// Action is one immutable ledger entry.
type Action struct {
	ID                     string
	AccountID              string
	UserID                 string
	TypeAction             string
	AmountAction           MonetaryValue
	Balance                MonetaryValue
	PaymentMethod          string
	TransactionInformation string
	Comments               string
	Source                 string
	CreatedAt              string
	NotifyPatron           bool
	DateAction             time.Time
	Sequence               int64
}

// Type returns the action type encoded in TypeAction.
func (a *Action) Type() ActionType {
	t, _ := ActionTypeFromLabel(a.TypeAction)
	return t
}

// ActionMetadata is the provenance attached to every action of one request.
type ActionMetadata struct {
	PaymentMethod   string
	TransactionInfo string
	Comments        string
	NotifyPatron    bool
	UserName        string
	ServicePointID  string
}

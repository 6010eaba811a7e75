package domain

import "fmt"

// ReplayMismatch describes an action whose recorded balance differs from the replayed one.
type ReplayMismatch struct {
	ActionID string
	Recorded MonetaryValue
	Replayed MonetaryValue
}

func (m ReplayMismatch) String() string {
	return fmt.Sprintf("action %s: recorded balance %s, replayed %s", m.ActionID, m.Recorded, m.Replayed)
}

// ReplayResult is the outcome of replaying an account's action history.
type ReplayResult struct {
	Balance    MonetaryValue
	Mismatches []ReplayMismatch
}

// ReplayActions rebuilds the running balance from the charged amount, applying each
// action's signed effect in ledger order, and compares it to every recorded balance.
//
// A REFUND first reverses its paired CREDIT and then adds the refunded amount, so its
// effect relative to the balance recorded on the CREDIT is twice the amount.
func ReplayActions(charged MonetaryValue, actions []*Action) ReplayResult {
	sorted := make([]*Action, len(actions))
	copy(sorted, actions)
	SortActions(sorted)

	balance := charged
	result := ReplayResult{}

	for _, a := range sorted {
		switch t := a.Type(); {
		case t == ActionTypeCharge:
			balance = charged
		case t == ActionTypeRefund:
			balance = balance.Add(a.AmountAction.Multiply(2))
		case t.IsDebit(), t == ActionTypeCredit:
			balance = balance.Subtract(a.AmountAction)
		}

		if !balance.Equal(a.Balance) {
			result.Mismatches = append(result.Mismatches, ReplayMismatch{
				ActionID: a.ID,
				Recorded: a.Balance,
				Replayed: balance,
			})
			// Continue from the recorded value so one bad row is reported once.
			balance = a.Balance
		}
	}

	result.Balance = balance
	return result
}

package domain

// validationRule describes which checks apply to an action type.
type validationRule struct {
	rejectClosed   bool
	takesAmount    bool
	boundedBy      limitKind
	nonPositiveErr error
	exceededErr    error
	bulkExceedErr  error
}

type limitKind int

const (
	limitNone limitKind = iota
	limitRemaining
	limitRefundable
)

var debitRule = validationRule{
	rejectClosed:   true,
	takesAmount:    true,
	boundedBy:      limitRemaining,
	nonPositiveErr: ErrNonPositiveAmount,
	exceededErr:    ErrExceedsRemaining,
	bulkExceedErr:  ErrExceedsRemaining,
}

var validationRules = map[ActionType]validationRule{
	ActionTypePay:      debitRule,
	ActionTypeWaive:    debitRule,
	ActionTypeTransfer: debitRule,
	ActionTypeCancel: {
		rejectClosed: true,
	},
	ActionTypeRefund: {
		takesAmount:    true,
		boundedBy:      limitRefundable,
		nonPositiveErr: ErrNoRefundableAmount,
		exceededErr:    ErrNoRefundableAmount,
		bulkExceedErr:  ErrInsufficientCapacity,
	},
}

// ValidateAction checks a single-account request and returns the normalized amount.
// refundable is only consulted for refunds.
//
// Checks run in this order: account exists, amount parses, account not closed,
// amount positive, amount within the limit of the action type.
func ValidateAction(t ActionType, account *Account, rawAmount string, refundable MonetaryValue) (MonetaryValue, error) {
	return validate(t, []*Account{account}, rawAmount, []MonetaryValue{refundable}, false)
}

// ValidateBulkAction checks a request spanning several accounts. The amount is bounded by
// the sum of the accounts' limits rather than by any single account.
func ValidateBulkAction(t ActionType, accounts []*Account, rawAmount string, refundable []MonetaryValue) (MonetaryValue, error) {
	if len(accounts) == 0 {
		return ZeroMoney, ErrNoAccounts
	}
	return validate(t, accounts, rawAmount, refundable, true)
}

func validate(t ActionType, accounts []*Account, rawAmount string, refundable []MonetaryValue, bulk bool) (MonetaryValue, error) {
	rule, ok := validationRules[t]
	if !ok {
		return ZeroMoney, ErrUnsupportedAction
	}

	for _, a := range accounts {
		if a == nil {
			return ZeroMoney, ErrAccountNotFound
		}
	}

	var amount MonetaryValue
	if rule.takesAmount {
		parsed, err := ParseMonetaryValue(rawAmount)
		if err != nil {
			return ZeroMoney, err
		}
		amount = parsed
	}

	if rule.rejectClosed {
		for _, a := range accounts {
			if a.IsClosed() {
				return ZeroMoney, ErrAlreadyClosed
			}
		}
	}

	if !rule.takesAmount {
		// Cancellation always takes what is left.
		total := ZeroMoney
		for _, a := range accounts {
			total = total.Add(a.Remaining)
		}
		return total, nil
	}

	if !amount.IsPositive() {
		return ZeroMoney, rule.nonPositiveErr
	}

	limit := ZeroMoney
	switch rule.boundedBy {
	case limitRemaining:
		for _, a := range accounts {
			limit = limit.Add(a.Remaining)
		}
	case limitRefundable:
		for i := range accounts {
			if i < len(refundable) {
				limit = limit.Add(refundable[i])
			}
		}
	}

	if rule.boundedBy != limitNone && amount.GreaterThan(limit) {
		if bulk {
			return ZeroMoney, rule.bulkExceedErr
		}
		return ZeroMoney, rule.exceededErr
	}

	return amount, nil
}

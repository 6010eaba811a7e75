package domain

import (
	"sort"
)

// RefundCategory is the kind of prior debit a refund returns money to.
type RefundCategory string

const (
	RefundCategoryPaid        RefundCategory = "PAID"
	RefundCategoryTransferred RefundCategory = "TRANSFERRED"
)

const (
	patronDestination = "patron"
	refundToPrefix    = "Refund to "
	refundedToPrefix  = "Refunded to "
)

// RefundTarget groups prior payments or transfers that share a method or destination.
type RefundTarget struct {
	Category        RefundCategory
	PaymentMethod   string
	Posted          MonetaryValue
	AlreadyRefunded MonetaryValue
	Capacity        MonetaryValue
}

// Destination is the party the money goes back to.
func (t RefundTarget) Destination() string {
	if t.Category == RefundCategoryPaid {
		return patronDestination
	}
	return t.PaymentMethod
}

// CreditInformation is the transaction information of the CREDIT step.
func (t RefundTarget) CreditInformation() string {
	return refundToPrefix + t.Destination()
}

// RefundInformation is the transaction information of the REFUND step.
func (t RefundTarget) RefundInformation() string {
	return refundedToPrefix + t.Destination()
}

type refundKey struct {
	category RefundCategory
	method   string
}

// TargetOrdering reorders resolved targets before allocation.
type TargetOrdering func(targets []RefundTarget) []RefundTarget

// FirstSeenOrder keeps PAID groups before TRANSFERRED groups, each in first-seen order.
func FirstSeenOrder(targets []RefundTarget) []RefundTarget {
	ordered := make([]RefundTarget, 0, len(targets))
	for _, c := range []RefundCategory{RefundCategoryPaid, RefundCategoryTransferred} {
		for _, t := range targets {
			if t.Category == c {
				ordered = append(ordered, t)
			}
		}
	}
	return ordered
}

// SortActions orders actions by date and then insertion order.
func SortActions(actions []*Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		if !actions[i].DateAction.Equal(actions[j].DateAction) {
			return actions[i].DateAction.Before(actions[j].DateAction)
		}
		return actions[i].Sequence < actions[j].Sequence
	})
}

// ResolveRefundTargets groups an account's payments and transfers by refund target,
// net of what has already been refunded. Targets without capacity are dropped.
func ResolveRefundTargets(actions []*Action, order TargetOrdering) []RefundTarget {
	if order == nil {
		order = FirstSeenOrder
	}

	sorted := make([]*Action, len(actions))
	copy(sorted, actions)
	SortActions(sorted)

	var keys []refundKey
	posted := make(map[refundKey]MonetaryValue)
	refunded := make(map[refundKey]MonetaryValue)

	for _, a := range sorted {
		switch a.Type() {
		case ActionTypePay, ActionTypeTransfer:
			key := refundKey{category: categoryForDebit(a.Type()), method: a.PaymentMethod}
			if _, seen := posted[key]; !seen {
				keys = append(keys, key)
			}
			posted[key] = posted[key].Add(a.AmountAction)
		case ActionTypeRefund:
			key := refundKey{category: categoryForRefund(a), method: a.PaymentMethod}
			refunded[key] = refunded[key].Add(a.AmountAction)
		}
	}

	targets := make([]RefundTarget, 0, len(keys))
	for _, key := range keys {
		capacity := posted[key].Subtract(refunded[key])
		if !capacity.IsPositive() {
			continue
		}
		targets = append(targets, RefundTarget{
			Category:        key.category,
			PaymentMethod:   key.method,
			Posted:          posted[key],
			AlreadyRefunded: refunded[key],
			Capacity:        capacity,
		})
	}

	return order(targets)
}

// TotalCapacity sums the capacity of all targets.
func TotalCapacity(targets []RefundTarget) MonetaryValue {
	total := ZeroMoney
	for _, t := range targets {
		total = total.Add(t.Capacity)
	}
	return total
}

func categoryForDebit(t ActionType) RefundCategory {
	if t == ActionTypeTransfer {
		return RefundCategoryTransferred
	}
	return RefundCategoryPaid
}

func categoryForRefund(a *Action) RefundCategory {
	switch a.TransactionInformation {
	case refundToPrefix + patronDestination, refundedToPrefix + patronDestination:
		return RefundCategoryPaid
	}
	return RefundCategoryTransferred
}

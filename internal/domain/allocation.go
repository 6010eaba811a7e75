package domain

// Allocation is the per-account split of a requested amount, in input order.
type Allocation struct {
	Amounts []MonetaryValue
	// Passes is the number of water-filling rounds it took to converge.
	Passes int
}

// Total sums the allocated amounts.
func (a *Allocation) Total() MonetaryValue {
	return SumMoney(a.Amounts...)
}

// AllocateFairShare distributes total across accounts with the given capacities as evenly
// as possible. Each round hands out an even share of the pool to the accounts still able
// to absorb it; accounts whose remaining capacity is below that share are filled to
// capacity and leave the active set, and the next round re-splits what is left. When no
// account is capped, the share goes to everyone and leftover cents are handed out in
// input order.
//
// It fails with ErrInsufficientCapacity when the pool cannot be exhausted.
func AllocateFairShare(total MonetaryValue, capacities []MonetaryValue) (*Allocation, error) {
	n := len(capacities)
	alloc := &Allocation{Amounts: make([]MonetaryValue, n)}

	room := make([]MonetaryValue, n)
	active := make([]int, 0, n)
	for i, c := range capacities {
		if c.IsPositive() {
			room[i] = c
			active = append(active, i)
		}
	}

	cent := MinorUnit()
	pool := total

	for pool.IsPositive() {
		if len(active) == 0 {
			return nil, ErrInsufficientCapacity
		}
		alloc.Passes++

		share := pool.FloorDiv(len(active))

		var capped, open []int
		for _, i := range active {
			if room[i].LessThan(share) {
				capped = append(capped, i)
			} else {
				open = append(open, i)
			}
		}

		if len(capped) > 0 {
			for _, i := range capped {
				alloc.Amounts[i] = alloc.Amounts[i].Add(room[i])
				pool = pool.Subtract(room[i])
				room[i] = ZeroMoney
			}
			active = open
			continue
		}

		if share.IsPositive() {
			for _, i := range active {
				alloc.Amounts[i] = alloc.Amounts[i].Add(share)
				room[i] = room[i].Subtract(share)
				pool = pool.Subtract(share)
			}
		}

		for _, i := range active {
			if !pool.IsPositive() {
				break
			}
			if room[i].LessThan(cent) {
				continue
			}
			alloc.Amounts[i] = alloc.Amounts[i].Add(cent)
			room[i] = room[i].Subtract(cent)
			pool = pool.Subtract(cent)
		}

		active = withRoom(active, room)
	}

	return alloc, nil
}

// DistributeWaterfall fills accounts in input order, each absorbing as much of what is
// left as its capacity allows. It fails with ErrExceedsRemaining when capacity runs out.
func DistributeWaterfall(total MonetaryValue, capacities []MonetaryValue) (*Allocation, error) {
	alloc := &Allocation{Amounts: make([]MonetaryValue, len(capacities)), Passes: 1}

	left := total
	for i, c := range capacities {
		if !left.IsPositive() {
			break
		}
		if !c.IsPositive() {
			continue
		}
		take := left.Min(c)
		alloc.Amounts[i] = take
		left = left.Subtract(take)
	}

	if left.IsPositive() {
		return nil, ErrExceedsRemaining
	}

	return alloc, nil
}

func withRoom(active []int, room []MonetaryValue) []int {
	kept := active[:0]
	for _, i := range active {
		if room[i].IsPositive() {
			kept = append(kept, i)
		}
	}
	return kept
}

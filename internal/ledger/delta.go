// Package ledger computes balance deltas for group expense events.
//
// Balances are signed running totals per member: positive means the group
// owes them, negative means they owe the group. Every event produces a
// delta map that sums to zero — each credit to a payer is matched by equal
// total debits to consumers — so applying deltas can never break the
// conservation invariant of a group's balance map.
package ledger

import "math"

// Tolerance is the rounding tolerance for currency comparisons, in
// currency units.
const Tolerance = 0.01

// Deltas maps a member ID to a signed balance change.
type Deltas map[int64]float64

// ExpenseDeltas returns the balance changes for an expense of the given
// total paid by payerID and consumed per the share map. The payer is
// credited the full amount; every consumer (the payer included, if they
// have a share) is debited their share.
func ExpenseDeltas(payerID int64, amount float64, shares map[int64]float64) Deltas {
	d := make(Deltas, len(shares)+1)
	d[payerID] += amount
	for member, share := range shares {
		d[member] -= share
	}
	for member, v := range d {
		d[member] = round2(v)
	}
	return d
}

// SettlementDeltas returns the balance changes for a settlement: the payer
// (debtor) moves toward zero from below, the receiver (creditor) from
// above.
func SettlementDeltas(payerID, receiverID int64, amount float64) Deltas {
	return ExpenseDeltas(payerID, amount, map[int64]float64{receiverID: amount})
}

// Diff returns the delta map that turns the old contribution into the new
// one: old-state negation plus new-state application, merged. Applying
// Diff(old, new) after old is equivalent to having applied new directly.
func Diff(old, updated Deltas) Deltas {
	d := make(Deltas, len(updated)+len(old))
	for member, v := range updated {
		d[member] += v
	}
	for member, v := range old {
		d[member] -= v
	}
	for member, v := range d {
		d[member] = round2(v)
	}
	return d
}

// Negate returns the exact reversal of a delta map, used when an entry is
// deleted outright.
func Negate(d Deltas) Deltas {
	out := make(Deltas, len(d))
	for member, v := range d {
		out[member] = round2(-v)
	}
	return out
}

// Sum returns the total of all deltas.
func Sum(d Deltas) float64 {
	var total float64
	for _, v := range d {
		total += v
	}
	return total
}

// Conserved reports whether a delta map preserves the zero-sum invariant.
func Conserved(d Deltas) bool {
	return math.Abs(Sum(d)) <= Tolerance
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

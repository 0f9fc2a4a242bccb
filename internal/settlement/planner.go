// Package settlement turns a group's balance map into a plan of pairwise
// transfers and records the settle-up payments members make against it.
package settlement

import (
	"math"
	"sort"

	"github.com/divvyhq/divvy/internal/ledger"
)

// Transfer is one planned payment: From owes, To is owed.
type Transfer struct {
	FromUserID int64   `json:"from_user_id"`
	ToUserID   int64   `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

type cursor struct {
	userID int64
	amount float64
}

// PlanTransfers computes the pairwise transfers that would bring every
// balance to zero, by greedily matching the largest debt against the
// largest credit. The result is a pure projection of the input — nothing
// is persisted and the same snapshot always yields the same plan.
//
// Ties are broken by user ID, which makes the plan deterministic but not
// globally minimal in transaction count; for the group sizes this serves,
// the greedy bound of debtors+creditors−1 transfers is the policy.
func PlanTransfers(balances map[int64]float64) []Transfer {
	var debtors, creditors []cursor
	for userID, balance := range balances {
		switch {
		case balance < -ledger.Tolerance:
			debtors = append(debtors, cursor{userID, balance})
		case balance > ledger.Tolerance:
			creditors = append(creditors, cursor{userID, balance})
		}
	}

	// Most negative debtor and largest creditor first.
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].amount != debtors[j].amount {
			return debtors[i].amount < debtors[j].amount
		}
		return debtors[i].userID < debtors[j].userID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].amount != creditors[j].amount {
			return creditors[i].amount > creditors[j].amount
		}
		return creditors[i].userID < creditors[j].userID
	})

	var plan []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(-debtors[i].amount, creditors[j].amount)
		amount = math.Round(amount*100) / 100

		if amount > ledger.Tolerance {
			plan = append(plan, Transfer{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     amount,
			})
		}

		debtors[i].amount += amount
		creditors[j].amount -= amount

		if debtors[i].amount >= -ledger.Tolerance {
			i++
		}
		if creditors[j].amount <= ledger.Tolerance {
			j++
		}
	}

	return plan
}

package settlement

import (
	"math"
	"reflect"
	"testing"
)

func applyPlan(balances map[int64]float64, plan []Transfer) map[int64]float64 {
	out := make(map[int64]float64, len(balances))
	for userID, b := range balances {
		out[userID] = b
	}
	for _, t := range plan {
		out[t.FromUserID] += t.Amount
		out[t.ToUserID] -= t.Amount
	}
	return out
}

func TestPlanTransfersScenario(t *testing.T) {
	// A fronted 300 split three ways: B and C each owe A 100.
	balances := map[int64]float64{1: 200, 2: -100, 3: -100}

	plan := PlanTransfers(balances)

	want := []Transfer{
		{FromUserID: 2, ToUserID: 1, Amount: 100},
		{FromUserID: 3, ToUserID: 1, Amount: 100},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("PlanTransfers() = %+v, want %+v", plan, want)
	}
}

func TestPlanTransfersZeroesBalances(t *testing.T) {
	tests := []struct {
		name     string
		balances map[int64]float64
	}{
		{
			name:     "two-party debt",
			balances: map[int64]float64{1: -100, 2: 100},
		},
		{
			name:     "one creditor many debtors",
			balances: map[int64]float64{1: 450, 2: -150, 3: -200, 4: -100},
		},
		{
			name:     "many creditors one debtor",
			balances: map[int64]float64{1: -600, 2: 250, 3: 350},
		},
		{
			name:     "mixed with awkward cents",
			balances: map[int64]float64{1: 33.34, 2: 33.33, 3: -66.67, 4: 0},
		},
		{
			name:     "already settled",
			balances: map[int64]float64{1: 0, 2: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanTransfers(tt.balances)

			after := applyPlan(tt.balances, plan)
			for userID, b := range after {
				if math.Abs(b) > 0.01 {
					t.Errorf("balance[%d] = %v after applying plan, want 0", userID, b)
				}
			}

			var debtors, creditors int
			for _, b := range tt.balances {
				if b < -0.01 {
					debtors++
				} else if b > 0.01 {
					creditors++
				}
			}
			if maxLen := debtors + creditors - 1; len(plan) > maxLen && maxLen >= 0 {
				t.Errorf("plan has %d transfers, want at most %d", len(plan), maxLen)
			}
		})
	}
}

func TestPlanTransfersDeterministic(t *testing.T) {
	balances := map[int64]float64{5: -40, 3: -40, 9: 60, 1: 20}

	first := PlanTransfers(balances)
	second := PlanTransfers(balances)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("plans differ across identical snapshots: %+v vs %+v", first, second)
	}
}

func TestPlanTransfersIgnoresDust(t *testing.T) {
	balances := map[int64]float64{1: 0.005, 2: -0.005}

	if plan := PlanTransfers(balances); len(plan) != 0 {
		t.Errorf("PlanTransfers() = %+v for dust balances, want empty", plan)
	}
}

func TestPlanTransfersTieBreakByUserID(t *testing.T) {
	// Equal debts must be ordered by user ID for a stable plan.
	balances := map[int64]float64{4: -50, 2: -50, 7: 100}

	plan := PlanTransfers(balances)
	want := []Transfer{
		{FromUserID: 2, ToUserID: 7, Amount: 50},
		{FromUserID: 4, ToUserID: 7, Amount: 50},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("PlanTransfers() = %+v, want %+v", plan, want)
	}
}

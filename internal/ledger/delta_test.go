package ledger

import (
	"math"
	"testing"
)

func applyDeltas(balances map[int64]float64, d Deltas) {
	for member, v := range d {
		balances[member] += v
	}
}

func TestExpenseDeltas(t *testing.T) {
	tests := []struct {
		name    string
		payerID int64
		amount  float64
		shares  map[int64]float64
		want    Deltas
	}{
		{
			name:    "equal three-way split paid by a participant",
			payerID: 1,
			amount:  300,
			shares:  map[int64]float64{1: 100, 2: 100, 3: 100},
			want:    Deltas{1: 200, 2: -100, 3: -100},
		},
		{
			name:    "payer not consuming",
			payerID: 1,
			amount:  50,
			shares:  map[int64]float64{2: 30, 3: 20},
			want:    Deltas{1: 50, 2: -30, 3: -20},
		},
		{
			name:    "payer is the only consumer",
			payerID: 1,
			amount:  80,
			shares:  map[int64]float64{1: 80},
			want:    Deltas{1: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpenseDeltas(tt.payerID, tt.amount, tt.shares)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d deltas, want %d", len(got), len(tt.want))
			}
			for member, want := range tt.want {
				if math.Abs(got[member]-want) > Tolerance {
					t.Errorf("delta[%d] = %v, want %v", member, got[member], want)
				}
			}
			if !Conserved(got) {
				t.Errorf("deltas not conserved: sum = %v", Sum(got))
			}
		})
	}
}

func TestSettlementDeltasRoundTrip(t *testing.T) {
	balances := map[int64]float64{1: -100, 2: 100}

	applyDeltas(balances, SettlementDeltas(1, 2, 100))

	for member, b := range balances {
		if math.Abs(b) > Tolerance {
			t.Errorf("balance[%d] = %v after settlement, want 0", member, b)
		}
	}
}

func TestDiffMatchesDirectApplication(t *testing.T) {
	// Edit changes payer from 1 to 2 and reshapes the shares.
	old := ExpenseDeltas(1, 300, map[int64]float64{1: 100, 2: 100, 3: 100})
	updated := ExpenseDeltas(2, 450, map[int64]float64{1: 150, 2: 150, 3: 150})

	viaDiff := map[int64]float64{}
	applyDeltas(viaDiff, old)
	applyDeltas(viaDiff, Diff(old, updated))

	direct := map[int64]float64{}
	applyDeltas(direct, updated)

	for member := range direct {
		if math.Abs(viaDiff[member]-direct[member]) > Tolerance {
			t.Errorf("member %d: old+diff = %v, direct = %v", member, viaDiff[member], direct[member])
		}
	}
	if !Conserved(Diff(old, updated)) {
		t.Error("edit diff not conserved")
	}
}

func TestNegateReversesApplication(t *testing.T) {
	d := ExpenseDeltas(1, 120.50, map[int64]float64{2: 60.25, 3: 60.25})

	balances := map[int64]float64{}
	applyDeltas(balances, d)
	applyDeltas(balances, Negate(d))

	for member, b := range balances {
		if math.Abs(b) > Tolerance {
			t.Errorf("balance[%d] = %v after reversal, want 0", member, b)
		}
	}
}

func TestConservationOverEventSequence(t *testing.T) {
	balances := map[int64]float64{1: 0, 2: 0, 3: 0}

	events := []Deltas{
		ExpenseDeltas(1, 300, map[int64]float64{1: 100, 2: 100, 3: 100}),
		ExpenseDeltas(2, 90.99, map[int64]float64{1: 30.33, 2: 30.33, 3: 30.33}),
		SettlementDeltas(3, 1, 100),
		ExpenseDeltas(3, 45.10, map[int64]float64{2: 45.10}),
	}

	for _, d := range events {
		applyDeltas(balances, d)
		var sum float64
		for _, b := range balances {
			sum += b
		}
		if math.Abs(sum) > Tolerance {
			t.Fatalf("balances sum to %v after event, want 0", sum)
		}
	}
}

package split

import (
	"errors"
	"math"
	"testing"
)

func sharePtr(v float64) *float64 {
	return &v
}

func sumShares(shares map[int64]float64) float64 {
	var sum float64
	for _, s := range shares {
		sum += s
	}
	return sum
}

func TestEqualStrategy(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []Participant
		wantErr      error
		wantShares   map[int64]float64
	}{
		{
			name:         "three-way even division",
			amount:       300,
			participants: []Participant{{UserID: 1}, {UserID: 2}, {UserID: 3}},
			wantShares:   map[int64]float64{1: 100, 2: 100, 3: 100},
		},
		{
			name:         "subset of the group",
			amount:       50,
			participants: []Participant{{UserID: 2}, {UserID: 4}},
			wantShares:   map[int64]float64{2: 25, 4: 25},
		},
		{
			name:         "indivisible cents land on the first participant",
			amount:       100,
			participants: []Participant{{UserID: 1}, {UserID: 2}, {UserID: 3}},
			wantShares:   map[int64]float64{1: 33.34, 2: 33.33, 3: 33.33},
		},
		{
			name:         "no participants",
			amount:       10,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "zero amount",
			amount:       0,
			participants: []Participant{{UserID: 1}},
			wantErr:      ErrNonPositiveAmount,
		},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Compute(tt.amount, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			for member, want := range tt.wantShares {
				if math.Abs(shares[member]-want) > Tolerance {
					t.Errorf("share[%d] = %v, want %v", member, shares[member], want)
				}
			}
			if math.Abs(sumShares(shares)-tt.amount) > Tolerance {
				t.Errorf("shares sum to %v, want %v", sumShares(shares), tt.amount)
			}
		})
	}
}

func TestEqualStrategySumsExactly(t *testing.T) {
	// Awkward divisions must still land on the total to the cent.
	strategy := &EqualStrategy{}
	amounts := []float64{100, 99.99, 0.01, 200.01, 77.77}
	participants := []Participant{{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4}, {UserID: 5}, {UserID: 6}, {UserID: 7}}

	for _, amount := range amounts {
		for n := 1; n <= len(participants); n++ {
			shares, err := strategy.Compute(amount, participants[:n])
			if err != nil {
				t.Fatalf("Compute(%v, %d participants) error = %v", amount, n, err)
			}
			if got := sumShares(shares); math.Abs(got-amount) > 0.001 {
				t.Errorf("Compute(%v, %d participants): shares sum to %v", amount, n, got)
			}
		}
	}
}

func TestExactStrategy(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []Participant
		wantErr      error
		wantShares   map[int64]float64
	}{
		{
			name:   "shares matching the total",
			amount: 500,
			participants: []Participant{
				{UserID: 1, Share: sharePtr(200)},
				{UserID: 2, Share: sharePtr(300)},
			},
			wantShares: map[int64]float64{1: 200, 2: 300},
		},
		{
			name:   "zero entries for uninvolved members are dropped",
			amount: 100,
			participants: []Participant{
				{UserID: 1, Share: sharePtr(100)},
				{UserID: 2, Share: sharePtr(0)},
				{UserID: 3, Share: sharePtr(0)},
			},
			wantShares: map[int64]float64{1: 100},
		},
		{
			name:   "sum short of the total",
			amount: 500,
			participants: []Participant{
				{UserID: 1, Share: sharePtr(200)},
				{UserID: 2, Share: sharePtr(200)},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:   "missing share value",
			amount: 100,
			participants: []Participant{
				{UserID: 1, Share: sharePtr(100)},
				{UserID: 2},
			},
			wantErr: ErrMissingShare,
		},
		{
			name:   "negative share",
			amount: 100,
			participants: []Participant{
				{UserID: 1, Share: sharePtr(150)},
				{UserID: 2, Share: sharePtr(-50)},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:         "no participants",
			amount:       100,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
	}

	strategy := &ExactStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Compute(tt.amount, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if len(shares) != len(tt.wantShares) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.wantShares))
			}
			for member, want := range tt.wantShares {
				if math.Abs(shares[member]-want) > Tolerance {
					t.Errorf("share[%d] = %v, want %v", member, shares[member], want)
				}
			}
		})
	}
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	for _, policy := range []Policy{PolicyEqual, PolicyExact} {
		strategy, err := factory.Create(policy)
		if err != nil {
			t.Fatalf("Create(%s) error = %v", policy, err)
		}
		if strategy.Policy() != policy {
			t.Errorf("Create(%s).Policy() = %s", policy, strategy.Policy())
		}
	}

	if _, err := factory.CreateFromString("PERCENTAGE"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("CreateFromString(PERCENTAGE) error = %v, want ErrUnknownPolicy", err)
	}
}

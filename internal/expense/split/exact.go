package split

import "github.com/shopspring/decimal"

// ExactStrategy takes caller-supplied shares and only validates them: the
// shares must cover the total within Tolerance. Zero shares mark members
// who are not consuming this expense and are dropped from the result.
type ExactStrategy struct{}

// Policy returns the split policy identifier
func (s *ExactStrategy) Policy() Policy {
	return PolicyExact
}

// Compute validates the supplied shares against the total and returns the
// nonzero ones, rounded to cents. Nothing is invented here — a mismatched
// sum fails before anything is persisted.
func (s *ExactStrategy) Compute(amount float64, participants []Participant) (map[int64]float64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	total := decimal.NewFromFloat(amount).Round(2)
	sum := decimal.Zero
	shares := make(map[int64]float64, len(participants))

	for _, p := range participants {
		if p.Share == nil {
			return nil, ErrMissingShare
		}
		share := decimal.NewFromFloat(*p.Share).Round(2)
		if share.IsNegative() {
			return nil, ErrNegativeShare
		}
		sum = sum.Add(share)
		if share.IsZero() {
			continue
		}
		shares[p.UserID] = share.InexactFloat64()
	}

	tolerance := decimal.NewFromFloat(Tolerance)
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, ErrSplitMismatch
	}

	return shares, nil
}

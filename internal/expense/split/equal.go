package split

import "github.com/shopspring/decimal"

// EqualStrategy divides the total evenly among the selected participants.
// Not every group member has to take part: the caller passes only the
// members consuming this expense.
type EqualStrategy struct{}

// Policy returns the split policy identifier
func (s *EqualStrategy) Policy() Policy {
	return PolicyEqual
}

// Compute divides amount evenly among participants. Division is done in
// decimal cents; whatever cents the even division cannot place land on the
// first participant, so the shares always sum to the total exactly.
func (s *EqualStrategy) Compute(amount float64, participants []Participant) (map[int64]float64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	total := decimal.NewFromFloat(amount).Round(2)
	n := decimal.NewFromInt(int64(len(participants)))

	perHead := total.DivRound(n, 2)
	remainder := total.Sub(perHead.Mul(n))

	shares := make(map[int64]float64, len(participants))
	for i, p := range participants {
		share := perHead
		if i == 0 {
			share = share.Add(remainder)
		}
		shares[p.UserID] = share.InexactFloat64()
	}

	return shares, nil
}

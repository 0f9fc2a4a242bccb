package mirror

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Source carries the fields of a group entry that mirror entries are
// derived from. It is a plain value so callers don't need to hand over
// their own types.
type Source struct {
	ExpenseID   int64
	GroupID     int64
	PayerID     int64
	Amount      float64
	Description string
	Date        time.Time
}

// ForExpense builds the mirror entry a shared expense produces in userID's
// personal log, or nil if they are not involved:
//
//   - payer: full amount, recoverable = amount − own share
//   - consumer with a nonzero share: their share only, nothing recoverable
//   - everyone else: no entry
func ForExpense(userID int64, src Source, shares map[int64]float64) *Entry {
	ownShare := shares[userID]

	if userID == src.PayerID {
		return &Entry{
			ID:                uuid.New(),
			UserID:            userID,
			GroupID:           src.GroupID,
			ExpenseID:         src.ExpenseID,
			Amount:            src.Amount,
			Category:          CategoryShared,
			Description:       src.Description,
			EntryDate:         src.Date,
			IsShared:          true,
			RecoverableAmount: round2(src.Amount - ownShare),
		}
	}

	if ownShare > 0 {
		return &Entry{
			ID:          uuid.New(),
			UserID:      userID,
			GroupID:     src.GroupID,
			ExpenseID:   src.ExpenseID,
			Amount:      ownShare,
			Category:    CategoryShared,
			Description: src.Description,
			EntryDate:   src.Date,
			IsShared:    true,
		}
	}

	return nil
}

// ForSettlement builds the two mirror entries a settlement produces: a
// plain expense for the payer (money leaving) and a negative-amount income
// entry for the receiver (money arriving).
func ForSettlement(receiverID int64, src Source) []*Entry {
	return []*Entry{
		{
			ID:          uuid.New(),
			UserID:      src.PayerID,
			GroupID:     src.GroupID,
			ExpenseID:   src.ExpenseID,
			Amount:      src.Amount,
			Category:    CategoryShared,
			Description: src.Description,
			EntryDate:   src.Date,
			IsShared:    true,
		},
		{
			ID:          uuid.New(),
			UserID:      receiverID,
			GroupID:     src.GroupID,
			ExpenseID:   src.ExpenseID,
			Amount:      -src.Amount,
			Category:    CategoryIncome,
			Description: src.Description,
			EntryDate:   src.Date,
			IsShared:    true,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

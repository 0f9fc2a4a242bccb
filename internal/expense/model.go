package expense

import (
	"time"

	"github.com/divvyhq/divvy/internal/mirror"
)

// Kind distinguishes consumption entries from settle-up transfers. A
// settlement is a degenerate expense whose share map assigns the full
// amount to exactly one receiver.
type Kind string

const (
	KindExpense    Kind = "EXPENSE"
	KindSettlement Kind = "SETTLEMENT"
)

// Expense represents an entry in a group's shared ledger
type Expense struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	PayerID     int64     `json:"payer_id"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	SplitType   string    `json:"split_type"` // EQUAL, EXACT
	SpentOn     time.Time `json:"spent_on"`   // calendar date, backdatable
	CreatedAt   time.Time `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Share is one member's owed portion of an entry
type Share struct {
	ExpenseID int64   `json:"expense_id"`
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithShares combines an entry with its share map
type ExpenseWithShares struct {
	Expense *Expense
	Shares  []*Share
}

// ShareMap flattens the share rows into member ID → owed amount
func (e *ExpenseWithShares) ShareMap() map[int64]float64 {
	shares := make(map[int64]float64, len(e.Shares))
	for _, s := range e.Shares {
		shares[s.UserID] = s.Amount
	}
	return shares
}

// MirrorSource converts an entry to the mirror package's source shape
func (e *Expense) MirrorSource() mirror.Source {
	return mirror.Source{
		ExpenseID:   e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.SpentOn,
	}
}

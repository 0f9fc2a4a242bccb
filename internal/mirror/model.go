package mirror

import (
	"time"

	"github.com/google/uuid"
)

// Entry categories in the personal log. Settlement receipts are recorded
// as negative-amount income entries; personal reporting downstream relies
// on that sign convention.
const (
	CategoryShared = "shared"
	CategoryIncome = "income"
)

// Entry is a shadow record in one user's private expense log, reflecting a
// shared group entry. ExpenseID is a back-reference, not ownership:
// deleting a mirror never touches the source entry and the source is only
// reverted through explicit sync calls.
type Entry struct {
	ID                uuid.UUID `json:"id"`
	UserID            int64     `json:"user_id"`
	GroupID           int64     `json:"group_id"`
	ExpenseID         int64     `json:"expense_id"`
	Amount            float64   `json:"amount"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	EntryDate         time.Time `json:"entry_date"`
	IsShared          bool      `json:"is_shared"`
	RecoverableAmount float64   `json:"recoverable_amount"`
	CreatedAt         time.Time `json:"created_at"`
}

// EntryResponse represents the response for a personal log entry
type EntryResponse struct {
	ID                uuid.UUID `json:"id"`
	GroupID           int64     `json:"group_id"`
	ExpenseID         int64     `json:"expense_id"`
	Amount            float64   `json:"amount"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	EntryDate         string    `json:"entry_date"`
	IsShared          bool      `json:"is_shared"`
	RecoverableAmount float64   `json:"recoverable_amount"`
}

// ToResponse converts an Entry model to an EntryResponse DTO
func (e *Entry) ToResponse() *EntryResponse {
	return &EntryResponse{
		ID:                e.ID,
		GroupID:           e.GroupID,
		ExpenseID:         e.ExpenseID,
		Amount:            e.Amount,
		Category:          e.Category,
		Description:       e.Description,
		EntryDate:         e.EntryDate.Format("2006-01-02"),
		IsShared:          e.IsShared,
		RecoverableAmount: e.RecoverableAmount,
	}
}

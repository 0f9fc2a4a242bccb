package expense

import (
	"time"

	"github.com/divvyhq/divvy/internal/expense/split"
)

// CreateExpenseRequest represents the request to record a shared expense
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required"`
	PayerID      int64               `json:"payer_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       float64             `json:"amount" validate:"required,gt=0"`
	SpentOn      string              `json:"spent_on,omitempty"` // YYYY-MM-DD, defaults to today
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL EXACT"`
	Participants []split.Participant `json:"participants" validate:"required,min=1"`
}

// UpdateExpenseRequest carries the full new state of an entry. Edits are
// not patches: the old contribution is negated and the new one applied, so
// the caller must supply every field.
type UpdateExpenseRequest struct {
	PayerID      int64               `json:"payer_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       float64             `json:"amount" validate:"required,gt=0"`
	SpentOn      string              `json:"spent_on" validate:"required"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL EXACT"`
	Participants []split.Participant `json:"participants" validate:"required,min=1"`
}

// ExpenseResponse represents the response for an entry
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	GroupID       int64            `json:"group_id"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Kind          Kind             `json:"kind"`
	Description   string           `json:"description"`
	Amount        float64          `json:"amount"`
	SplitType     string           `json:"split_type"`
	SpentOn       string           `json:"spent_on"`
	CreatedAt     string           `json:"created_at"`
	Shares        []*ShareResponse `json:"shares,omitempty"`
}

// ShareResponse represents one member's owed portion
type ShareResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Kind:          e.Kind,
		Description:   e.Description,
		Amount:        e.Amount,
		SplitType:     e.SplitType,
		SpentOn:       e.SpentOn.Format("2006-01-02"),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Share model to a ShareResponse DTO
func (s *Share) ToResponse() *ShareResponse {
	return &ShareResponse{
		UserID:   s.UserID,
		Username: s.Username,
		Amount:   s.Amount,
	}
}

// parseSpentOn parses a YYYY-MM-DD date, defaulting to today when empty
func parseSpentOn(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", value)
}

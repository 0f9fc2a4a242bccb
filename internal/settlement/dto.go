package settlement

import "time"

// CreateSettlementRequest represents a settle-up payment. The acting user
// is the payer: the debtor extinguishing (part of) what they owe.
type CreateSettlementRequest struct {
	GroupID    int64   `json:"group_id" validate:"required"`
	ReceiverID int64   `json:"receiver_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	SpentOn    string  `json:"spent_on,omitempty"` // YYYY-MM-DD, defaults to today
}

// TransferResponse is one planned payment with display names joined in
type TransferResponse struct {
	FromUserID   int64   `json:"from_user_id"`
	FromUsername string  `json:"from_username,omitempty"`
	ToUserID     int64   `json:"to_user_id"`
	ToUsername   string  `json:"to_username,omitempty"`
	Amount       float64 `json:"amount"`
}

// PlanResponse is the settlement plan for a group, derived from the
// current balances on every read
type PlanResponse struct {
	GroupID   int64               `json:"group_id"`
	Transfers []*TransferResponse `json:"transfers"`
}

// parseSpentOn parses a YYYY-MM-DD date, defaulting to today when empty
func parseSpentOn(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", value)
}

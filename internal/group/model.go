package group

import "time"

// Group represents a set of people sharing expenses
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Member represents a user's membership in a group together with their
// signed running balance: positive means the group owes them, negative
// means they owe the group. The balances of a group always sum to zero.
type Member struct {
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	Balance  float64   `json:"balance"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

package user

import "time"

// User represents a user in the directory. The ledger core only ever
// stores user IDs; display names are joined in at the read edge.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

package group

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []int64 `json:"member_ids,omitempty"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	CreatedBy int64             `json:"created_by"`
	CreatedAt string            `json:"created_at"`
	Members   []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents the response for a group member
type MemberResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username,omitempty"`
	Balance  float64 `json:"balance"`
	JoinedAt string  `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
		Balance:  m.Balance,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}

package group

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/divvyhq/divvy/internal/database"
	"github.com/divvyhq/divvy/internal/ledger"
)

// Repository handles group and balance persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group. Runs on a DBTX so group creation and the
// initial member rows commit together.
func (r *Repository) Create(ctx context.Context, q database.DBTX, name string, createdBy int64) (*Group, error) {
	query := `
		INSERT INTO groups (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, created_by, created_at
	`

	group := &Group{}
	err := q.QueryRowContext(ctx, query, name, createdBy).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves all groups a user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.CreatedBy,
			&group.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name)
		WHERE id = $1
		RETURNING id, name, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// Delete removes a group and, via cascade, its membership and entries
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group not found")
	}

	return nil
}

// AddMember adds a user to a group with a zero opening balance
func (r *Repository) AddMember(ctx context.Context, q database.DBTX, groupID, userID int64) (*Member, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, balance)
		VALUES ($1, $2, 0)
		RETURNING group_id, user_id, balance, joined_at
	`

	member := &Member{}
	err := q.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.GroupID,
		&member.UserID,
		&member.Balance,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a group with their balances
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.balance, gm.joined_at, u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.GroupID,
			&member.UserID,
			&member.Balance,
			&member.JoinedAt,
			&member.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// GetMember retrieves a specific member of a group
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*Member, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.balance, gm.joined_at, u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.user_id = $2
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.GroupID,
		&member.UserID,
		&member.Balance,
		&member.JoinedAt,
		&member.Username,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// MemberBalances returns the balance map for a group
func (r *Repository) MemberBalances(ctx context.Context, groupID int64) (map[int64]float64, error) {
	query := `
		SELECT user_id, balance
		FROM group_members
		WHERE group_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[int64]float64)
	for rows.Next() {
		var userID int64
		var balance float64
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[userID] = balance
	}

	return balances, nil
}

// ApplyDeltas applies balance changes as atomic per-member increments.
// Balances are never read, modified and written back as a whole map, so
// concurrent writers to the same group cannot lose updates. Members are
// visited in ID order to keep row lock acquisition deterministic.
func (r *Repository) ApplyDeltas(ctx context.Context, q database.DBTX, groupID int64, deltas ledger.Deltas) error {
	memberIDs := make([]int64, 0, len(deltas))
	for memberID := range deltas {
		memberIDs = append(memberIDs, memberID)
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })

	query := `
		UPDATE group_members
		SET balance = balance + $3
		WHERE group_id = $1 AND user_id = $2
	`

	for _, memberID := range memberIDs {
		if deltas[memberID] == 0 {
			continue
		}
		result, err := q.ExecContext(ctx, query, groupID, memberID, deltas[memberID])
		if err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("user %d is not a member of group %d", memberID, groupID)
		}
	}

	return nil
}

// RemoveMember removes a user from a group
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

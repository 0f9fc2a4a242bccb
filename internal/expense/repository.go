package expense

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/divvyhq/divvy/internal/database"
)

// Repository handles expense entry and share persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new entry. Takes a DBTX because entry, shares, balance
// deltas and mirror writes commit as one batch.
func (r *Repository) Insert(ctx context.Context, q database.DBTX, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, payer_id, kind, description, amount, split_type, spent_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, group_id, payer_id, kind, description, amount, split_type, spent_on, created_at
	`

	out := &Expense{}
	err := q.QueryRowContext(ctx, query,
		e.GroupID,
		e.PayerID,
		e.Kind,
		e.Description,
		e.Amount,
		e.SplitType,
		e.SpentOn,
	).Scan(
		&out.ID,
		&out.GroupID,
		&out.PayerID,
		&out.Kind,
		&out.Description,
		&out.Amount,
		&out.SplitType,
		&out.SpentOn,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	return out, nil
}

// InsertShares writes the share map rows for an entry
func (r *Repository) InsertShares(ctx context.Context, q database.DBTX, expenseID int64, shares map[int64]float64) error {
	memberIDs := make([]int64, 0, len(shares))
	for memberID := range shares {
		memberIDs = append(memberIDs, memberID)
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })

	query := `INSERT INTO expense_shares (expense_id, user_id, share) VALUES ($1, $2, $3)`
	for _, memberID := range memberIDs {
		if shares[memberID] == 0 {
			continue
		}
		if _, err := q.ExecContext(ctx, query, expenseID, memberID, shares[memberID]); err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	return nil
}

// DeleteShares removes the share map rows for an entry
func (r *Repository) DeleteShares(ctx context.Context, q database.DBTX, expenseID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, expenseID); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.kind, e.description, e.amount, e.split_type, e.spent_on, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.GroupID,
		&e.PayerID,
		&e.Kind,
		&e.Description,
		&e.Amount,
		&e.SplitType,
		&e.SpentOn,
		&e.CreatedAt,
		&e.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// GetShares retrieves the share rows for an entry
func (r *Repository) GetShares(ctx context.Context, expenseID int64) ([]*Share, error) {
	query := `
		SELECT s.expense_id, s.user_id, s.share, u.username
		FROM expense_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []*Share
	for rows.Next() {
		s := &Share{}
		if err := rows.Scan(&s.ExpenseID, &s.UserID, &s.Amount, &s.Username); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, s)
	}

	return shares, nil
}

// ListByGroup retrieves a group's entries, newest calendar date first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.kind, e.description, e.amount, e.split_type, e.spent_on, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.spent_on DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.PayerID,
			&e.Kind,
			&e.Description,
			&e.Amount,
			&e.SplitType,
			&e.SpentOn,
			&e.CreatedAt,
			&e.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, total, nil
}

// Update rewrites the mutable fields of an entry
func (r *Repository) Update(ctx context.Context, q database.DBTX, e *Expense) error {
	query := `
		UPDATE expenses
		SET payer_id = $2, description = $3, amount = $4, split_type = $5, spent_on = $6
		WHERE id = $1
	`

	result, err := q.ExecContext(ctx, query,
		e.ID,
		e.PayerID,
		e.Description,
		e.Amount,
		e.SplitType,
		e.SpentOn,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}

	return nil
}

// Delete removes an entry; share rows cascade
func (r *Repository) Delete(ctx context.Context, q database.DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}

	return nil
}

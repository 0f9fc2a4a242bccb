package mirror

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/database"
)

// Repository handles personal mirror entry persistence. All mutating
// methods take a DBTX because mirror writes always ride in the same
// transaction as the group-side write they shadow.
type Repository struct{}

// NewRepository creates a new mirror repository
func NewRepository() *Repository {
	return &Repository{}
}

// Insert writes a mirror entry
func (r *Repository) Insert(ctx context.Context, q database.DBTX, e *Entry) error {
	query := `
		INSERT INTO mirror_entries
			(id, user_id, group_id, expense_id, amount, category, description, entry_date, is_shared, recoverable_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.GroupID,
		e.ExpenseID,
		e.Amount,
		e.Category,
		e.Description,
		e.EntryDate,
		e.IsShared,
		e.RecoverableAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mirror entry: %w", err)
	}

	return nil
}

// Update rewrites the mutable fields of a mirror entry in place
func (r *Repository) Update(ctx context.Context, q database.DBTX, e *Entry) error {
	query := `
		UPDATE mirror_entries
		SET amount = $2, category = $3, description = $4, entry_date = $5, recoverable_amount = $6
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query,
		e.ID,
		e.Amount,
		e.Category,
		e.Description,
		e.EntryDate,
		e.RecoverableAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to update mirror entry: %w", err)
	}

	return nil
}

// Delete removes a single mirror entry
func (r *Repository) Delete(ctx context.Context, q database.DBTX, id uuid.UUID) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM mirror_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete mirror entry: %w", err)
	}
	return nil
}

// ListByExpense retrieves every mirror entry back-referencing a group entry
func (r *Repository) ListByExpense(ctx context.Context, q database.DBTX, expenseID int64) ([]*Entry, error) {
	query := `
		SELECT id, user_id, group_id, expense_id, amount, category, description, entry_date, is_shared, recoverable_amount, created_at
		FROM mirror_entries
		WHERE expense_id = $1
		ORDER BY user_id
	`

	rows, err := q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mirror entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.GroupID,
			&e.ExpenseID,
			&e.Amount,
			&e.Category,
			&e.Description,
			&e.EntryDate,
			&e.IsShared,
			&e.RecoverableAmount,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mirror entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// SyncExpense reconciles the existing mirror entries of a group entry
// after an edit. Each owner's entry is rebuilt from the new state: updated
// in place while they stay involved, deleted once their share drops to
// zero and they are no longer the payer. No new mirrors appear here —
// creation happens once, for the acting user, when the source is recorded.
func (r *Repository) SyncExpense(ctx context.Context, q database.DBTX, src Source, shares map[int64]float64) error {
	existing, err := r.ListByExpense(ctx, q, src.ExpenseID)
	if err != nil {
		return err
	}

	for _, old := range existing {
		rebuilt := ForExpense(old.UserID, src, shares)
		if rebuilt == nil {
			if err := r.Delete(ctx, q, old.ID); err != nil {
				return err
			}
			continue
		}
		rebuilt.ID = old.ID
		if err := r.Update(ctx, q, rebuilt); err != nil {
			return err
		}
	}

	return nil
}

// RevertExpense removes every mirror entry linked to a group entry; used
// when the source entry is deleted outright.
func (r *Repository) RevertExpense(ctx context.Context, q database.DBTX, expenseID int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM mirror_entries WHERE expense_id = $1`, expenseID); err != nil {
		return fmt.Errorf("failed to revert mirror entries: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's personal log, newest first
func (r *Repository) ListByUser(ctx context.Context, q database.DBTX, userID int64, limit, offset int) ([]*Entry, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM mirror_entries WHERE user_id = $1`
	if err := q.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count mirror entries: %w", err)
	}

	query := `
		SELECT id, user_id, group_id, expense_id, amount, category, description, entry_date, is_shared, recoverable_amount, created_at
		FROM mirror_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mirror entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.GroupID,
			&e.ExpenseID,
			&e.Amount,
			&e.Category,
			&e.Description,
			&e.EntryDate,
			&e.IsShared,
			&e.RecoverableAmount,
			&e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan mirror entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, total, nil
}

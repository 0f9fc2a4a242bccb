package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/divvyhq/divvy/internal/database"
	"github.com/divvyhq/divvy/internal/expense/split"
	"github.com/divvyhq/divvy/internal/group"
	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/mirror"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrNotMember            = errors.New("user is not a member of this group")
	ErrCannotEditSettlement = errors.New("settlements cannot be edited; delete and settle up again")
)

// Service handles the shared expense ledger: recording, editing and
// deleting entries, with balance deltas and personal mirrors applied in
// the same transaction.
type Service struct {
	db           *sql.DB
	repo         *Repository
	groups       *group.Repository
	mirrors      *mirror.Repository
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected
func NewService(db *sql.DB, repo *Repository, groups *group.Repository, mirrors *mirror.Repository, splitFactory *split.Factory) *Service {
	return &Service{
		db:           db,
		repo:         repo,
		groups:       groups,
		mirrors:      mirrors,
		splitFactory: splitFactory,
	}
}

// memberSet returns the member IDs of a group, or group.ErrGroupNotFound
func (s *Service) memberSet(ctx context.Context, groupID int64) (map[int64]bool, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	members, err := s.groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	set := make(map[int64]bool, len(members))
	for _, m := range members {
		set[m.UserID] = true
	}
	return set, nil
}

func validateMembership(members map[int64]bool, payerID int64, participants []split.Participant) error {
	if !members[payerID] {
		return fmt.Errorf("payer %d: %w", payerID, ErrNotMember)
	}
	for _, p := range participants {
		if !members[p.UserID] {
			return fmt.Errorf("participant %d: %w", p.UserID, ErrNotMember)
		}
	}
	return nil
}

// Create records a shared expense: computes the share map, persists the
// entry and shares, applies the balance deltas and writes the acting
// user's personal mirror — all in one transaction.
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*ExpenseWithShares, error) {
	members, err := s.memberSet(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := validateMembership(members, req.PayerID, req.Participants); err != nil {
		return nil, err
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}
	shares, err := strategy.Compute(req.Amount, req.Participants)
	if err != nil {
		return nil, err
	}

	spentOn, err := parseSpentOn(req.SpentOn)
	if err != nil {
		return nil, fmt.Errorf("invalid spent_on date: %w", err)
	}

	deltas := ledger.ExpenseDeltas(req.PayerID, req.Amount, shares)
	if !ledger.Conserved(deltas) {
		return nil, fmt.Errorf("balance deltas sum to %.2f, expected zero", ledger.Sum(deltas))
	}

	var created *Expense
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = s.repo.Insert(ctx, tx, &Expense{
			GroupID:     req.GroupID,
			PayerID:     req.PayerID,
			Kind:        KindExpense,
			Description: req.Description,
			Amount:      req.Amount,
			SplitType:   req.SplitType,
			SpentOn:     spentOn,
		})
		if err != nil {
			return err
		}

		if err := s.repo.InsertShares(ctx, tx, created.ID, shares); err != nil {
			return err
		}
		if err := s.groups.ApplyDeltas(ctx, tx, req.GroupID, deltas); err != nil {
			return err
		}

		if m := mirror.ForExpense(actorID, created.MirrorSource(), shares); m != nil {
			if err := s.mirrors.Insert(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.withShares(ctx, created)
}

// Update replaces an entry's state. The old contribution is negated and
// the new one applied as a single delta, so balances stay exact whether
// the payer, the amount or the share map changed.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateExpenseRequest) (*ExpenseWithShares, error) {
	existing, err := s.getWithShares(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Expense.Kind == KindSettlement {
		return nil, ErrCannotEditSettlement
	}

	members, err := s.memberSet(ctx, existing.Expense.GroupID)
	if err != nil {
		return nil, err
	}
	if err := validateMembership(members, req.PayerID, req.Participants); err != nil {
		return nil, err
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}
	newShares, err := strategy.Compute(req.Amount, req.Participants)
	if err != nil {
		return nil, err
	}

	spentOn, err := parseSpentOn(req.SpentOn)
	if err != nil {
		return nil, fmt.Errorf("invalid spent_on date: %w", err)
	}

	oldDeltas := ledger.ExpenseDeltas(existing.Expense.PayerID, existing.Expense.Amount, existing.ShareMap())
	newDeltas := ledger.ExpenseDeltas(req.PayerID, req.Amount, newShares)
	diff := ledger.Diff(oldDeltas, newDeltas)
	if !ledger.Conserved(diff) {
		return nil, fmt.Errorf("edit deltas sum to %.2f, expected zero", ledger.Sum(diff))
	}

	updated := &Expense{
		ID:          existing.Expense.ID,
		GroupID:     existing.Expense.GroupID,
		PayerID:     req.PayerID,
		Kind:        existing.Expense.Kind,
		Description: req.Description,
		Amount:      req.Amount,
		SplitType:   req.SplitType,
		SpentOn:     spentOn,
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.repo.Update(ctx, tx, updated); err != nil {
			return err
		}
		if err := s.repo.DeleteShares(ctx, tx, updated.ID); err != nil {
			return err
		}
		if err := s.repo.InsertShares(ctx, tx, updated.ID, newShares); err != nil {
			return err
		}
		if err := s.groups.ApplyDeltas(ctx, tx, updated.GroupID, diff); err != nil {
			return err
		}
		return s.mirrors.SyncExpense(ctx, tx, updated.MirrorSource(), newShares)
	})
	if err != nil {
		return nil, err
	}

	return s.withShares(ctx, updated)
}

// Delete removes an entry and reverses its balance contribution — the
// exact negation of what creation applied — along with its mirrors.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.getWithShares(ctx, id)
	if err != nil {
		return err
	}

	reversal := ledger.Negate(ledger.ExpenseDeltas(
		existing.Expense.PayerID,
		existing.Expense.Amount,
		existing.ShareMap(),
	))

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.repo.DeleteShares(ctx, tx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		if err := s.groups.ApplyDeltas(ctx, tx, existing.Expense.GroupID, reversal); err != nil {
			return err
		}
		return s.mirrors.RevertExpense(ctx, tx, id)
	})
}

// GetByID retrieves an entry with its share map
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithShares, error) {
	return s.getWithShares(ctx, id)
}

// ListByGroup retrieves a group's entries, newest first
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

func (s *Service) getWithShares(ctx context.Context, id int64) (*ExpenseWithShares, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return s.withShares(ctx, e)
}

func (s *Service) withShares(ctx context.Context, e *Expense) (*ExpenseWithShares, error) {
	shares, err := s.repo.GetShares(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return &ExpenseWithShares{Expense: e, Shares: shares}, nil
}

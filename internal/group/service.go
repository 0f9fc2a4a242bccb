package group

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"

	"github.com/divvyhq/divvy/internal/database"
	"github.com/divvyhq/divvy/internal/ledger"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrOutstandingBalance  = errors.New("member has an outstanding balance and cannot be removed")
)

// Service handles group business logic
type Service struct {
	db   *sql.DB
	repo *Repository
}

// NewService creates a new group service
func NewService(db *sql.DB, repo *Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Create creates a group with the creator and any listed members joined at
// a zero balance. The group row and all member rows commit atomically.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	var group *Group
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		group, err = s.repo.Create(ctx, tx, req.Name, creatorID)
		if err != nil {
			return err
		}

		if _, err := s.repo.AddMember(ctx, tx, group.ID, creatorID); err != nil {
			return err
		}
		for _, memberID := range req.MemberIDs {
			if memberID == creatorID {
				continue
			}
			if _, err := s.repo.AddMember(ctx, tx, group.ID, memberID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members and balances
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*Member, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups a user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing group
func (s *Service) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	group, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Delete removes a group
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to a group with a zero opening balance
func (s *Service) AddMember(ctx context.Context, groupID int64, req *AddMemberRequest) (*Member, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, s.db, groupID, req.UserID)
}

// RemoveMember removes a user from a group. Removal is refused while the
// member still owes or is owed money; the debt has to be settled first,
// otherwise the group's balances would no longer sum to zero.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	if math.Abs(member.Balance) > ledger.Tolerance {
		return ErrOutstandingBalance
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

// Balances returns the balance map for a group
func (s *Service) Balances(ctx context.Context, groupID int64) (map[int64]float64, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	balances, err := s.repo.MemberBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !ledger.Conserved(ledger.Deltas(balances)) {
		slog.Warn("group balances do not sum to zero",
			"group_id", groupID,
			"sum", ledger.Sum(ledger.Deltas(balances)),
		)
	}

	return balances, nil
}

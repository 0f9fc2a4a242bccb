package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/divvyhq/divvy/internal/database"
	"github.com/divvyhq/divvy/internal/expense"
	"github.com/divvyhq/divvy/internal/group"
	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/mirror"
)

// Common errors
var (
	ErrCannotSettleSelf  = errors.New("cannot settle up with yourself")
	ErrNotMember         = errors.New("user is not a member of this group")
	ErrNonPositiveAmount = errors.New("settlement amount must be greater than zero")
)

// Service plans settlements and records settle-up payments
type Service struct {
	db       *sql.DB
	expenses *expense.Repository
	groups   *group.Repository
	mirrors  *mirror.Repository
}

// NewService creates a new settlement service
func NewService(db *sql.DB, expenses *expense.Repository, groups *group.Repository, mirrors *mirror.Repository) *Service {
	return &Service{
		db:       db,
		expenses: expenses,
		groups:   groups,
		mirrors:  mirrors,
	}
}

// Plan computes the transfer plan for a group from its current balances.
// Derived on every call; never cached or persisted.
func (s *Service) Plan(ctx context.Context, groupID int64) (*PlanResponse, error) {
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

	balances := make(map[int64]float64, len(members))
	usernames := make(map[int64]string, len(members))
	for _, m := range members {
		balances[m.UserID] = m.Balance
		usernames[m.UserID] = m.Username
	}

	transfers := PlanTransfers(balances)
	resp := &PlanResponse{
		GroupID:   groupID,
		Transfers: make([]*TransferResponse, len(transfers)),
	}
	for i, t := range transfers {
		resp.Transfers[i] = &TransferResponse{
			FromUserID:   t.FromUserID,
			FromUsername: usernames[t.FromUserID],
			ToUserID:     t.ToUserID,
			ToUsername:   usernames[t.ToUserID],
			Amount:       t.Amount,
		}
	}

	return resp, nil
}

// SettleUp records a payment from the acting user to the receiver as a
// SETTLEMENT entry whose share map assigns the full amount to the
// receiver. The entry, the balance deltas and both parties' personal
// mirrors commit in one transaction.
func (s *Service) SettleUp(ctx context.Context, payerID int64, req *CreateSettlementRequest) (*expense.ExpenseWithShares, error) {
	if payerID == req.ReceiverID {
		return nil, ErrCannotSettleSelf
	}
	if req.Amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}
	for _, userID := range []int64{payerID, req.ReceiverID} {
		member, err := s.groups.GetMember(ctx, req.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotMember)
		}
	}

	spentOn, err := parseSpentOn(req.SpentOn)
	if err != nil {
		return nil, fmt.Errorf("invalid spent_on date: %w", err)
	}

	shares := map[int64]float64{req.ReceiverID: req.Amount}
	deltas := ledger.SettlementDeltas(payerID, req.ReceiverID, req.Amount)

	var created *expense.Expense
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = s.expenses.Insert(ctx, tx, &expense.Expense{
			GroupID:     req.GroupID,
			PayerID:     payerID,
			Kind:        expense.KindSettlement,
			Description: "Settle up",
			Amount:      req.Amount,
			SplitType:   string(expense.KindSettlement),
			SpentOn:     spentOn,
		})
		if err != nil {
			return err
		}

		if err := s.expenses.InsertShares(ctx, tx, created.ID, shares); err != nil {
			return err
		}
		if err := s.groups.ApplyDeltas(ctx, tx, req.GroupID, deltas); err != nil {
			return err
		}

		for _, m := range mirror.ForSettlement(req.ReceiverID, created.MirrorSource()) {
			if err := s.mirrors.Insert(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &expense.ExpenseWithShares{
		Expense: created,
		Shares: []*expense.Share{
			{ExpenseID: created.ID, UserID: req.ReceiverID, Amount: req.Amount},
		},
	}, nil
}

package split

import (
	"errors"
	"fmt"
)

// Policy defines how an expense total is divided into per-member shares
type Policy string

const (
	PolicyEqual Policy = "EQUAL"
	PolicyExact Policy = "EXACT"
)

// Participant is one member selected for a split. Share is only set for
// EXACT splits; zero shares are allowed there to mark uninvolved members.
type Participant struct {
	UserID int64    `json:"user_id"`
	Share  *float64 `json:"share,omitempty"`
}

// Strategy computes the per-member share map for an expense. The result
// covers every consuming participant, the payer included, and its values
// sum to the total within Tolerance.
type Strategy interface {
	Compute(amount float64, participants []Participant) (map[int64]float64, error)

	Policy() Policy
}

// Factory creates split strategies based on the requested policy
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given policy
func (f *Factory) Create(policy Policy) (Strategy, error) {
	switch policy {
	case PolicyEqual:
		return &EqualStrategy{}, nil
	case PolicyExact:
		return &ExactStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
}

// CreateFromString creates a strategy from a string policy (useful for API requests)
func (f *Factory) CreateFromString(policy string) (Strategy, error) {
	return f.Create(Policy(policy))
}

// Tolerance is the allowed gap between the sum of shares and the total
// amount, in currency units.
const Tolerance = 0.01

var (
	ErrUnknownPolicy     = errors.New("unknown split policy")
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrMissingShare      = errors.New("share value required for all participants in an exact split")
	ErrNegativeShare     = errors.New("shares cannot be negative")
	ErrSplitMismatch     = errors.New("exact shares must sum to the total amount")
)

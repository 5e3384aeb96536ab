package stock

import (
	"context"
	"fmt"

	"bikeshop/internal/core/apperror"
)

// Ledger is the append-only record of stock events. Record is its single
// operation: persist one movement and project its balance effect as part of
// the caller's unit of work.
type Ledger struct {
	repo      Repository
	projector *Projector
}

// NewLedger creates a ledger over the given repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{
		repo:      repo,
		projector: NewProjector(repo),
	}
}

// Record validates, persists and projects a movement. The caller supplies
// the transaction; a projection failure (insufficient stock) aborts it, so
// the movement write never survives alone.
func (l *Ledger) Record(ctx context.Context, m Movement) (*Movement, error) {
	switch m.Kind {
	case KindIn, KindOut:
		if m.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity("quantity must be greater than zero", m.Quantity)
		}
	case KindAdjust:
		if m.AdjustTarget == nil {
			return nil, apperror.NewValidation("adjust movement requires a target balance")
		}
		// Quantity holds abs(target - prior); zero would be a no-op
		// entry, and no-op adjustments are not recorded.
		if m.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity("adjust quantity must be greater than zero", m.Quantity)
		}
	default:
		return nil, apperror.NewValidation("unknown movement kind").
			WithDetail("kind", string(m.Kind))
	}

	if err := l.repo.CreateMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}

	if err := l.projector.Apply(ctx, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

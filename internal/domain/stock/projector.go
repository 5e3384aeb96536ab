package stock

import (
	"context"
	"fmt"

	"bikeshop/internal/core/apperror"
)

// Projector keeps balance rows consistent with the ledger. It is the only
// writer of balance state and runs synchronously in the same transaction as
// the movement insert, so the atomicity boundary stays visible: either both
// the movement and its balance effect commit, or neither does.
type Projector struct {
	repo Repository
}

// NewProjector creates a projector over the given repository.
func NewProjector(repo Repository) *Projector {
	return &Projector{repo: repo}
}

// Apply folds one freshly recorded movement into the balance for its
// (product, warehouse) pair. The balance row is locked for the duration of
// the check-then-update, so two concurrent debits can never both read the
// same stale quantity.
//
// Apply must not be called twice for the same movement; it does not
// deduplicate.
func (p *Projector) Apply(ctx context.Context, m *Movement) error {
	balance, err := p.repo.GetBalanceForUpdate(ctx, m.ProductID, m.WarehouseID)
	if err != nil {
		return fmt.Errorf("get balance for update: %w", err)
	}

	switch m.Kind {
	case KindIn:
		balance.Quantity += m.Quantity

	case KindOut:
		if balance.Quantity < m.Quantity {
			return apperror.NewInsufficientStock(
				m.ProductID.String(),
				m.WarehouseID.String(),
				m.Quantity,
				balance.Quantity,
			)
		}
		balance.Quantity -= m.Quantity

	case KindAdjust:
		// An ADJUST without a target would leave a ledger entry whose
		// effect cannot be reconstructed from the ledger alone.
		if m.AdjustTarget == nil {
			return apperror.NewValidation("adjust movement is missing its target balance")
		}
		// The movement's quantity was computed against the same locked
		// balance this read returned; a mismatch means the entry does not
		// describe the transition it is about to cause.
		if abs(*m.AdjustTarget-balance.Quantity) != m.Quantity {
			return apperror.NewValidation("adjust quantity does not match the balance difference").
				WithDetail("quantity", m.Quantity).
				WithDetail("target", *m.AdjustTarget).
				WithDetail("balance", balance.Quantity)
		}
		balance.Quantity = *m.AdjustTarget

	default:
		return apperror.NewValidation("unknown movement kind").
			WithDetail("kind", string(m.Kind))
	}

	balance.LastMovementAt = m.CreatedAt

	if err := p.repo.SaveBalance(ctx, balance); err != nil {
		return fmt.Errorf("save balance: %w", err)
	}

	return nil
}

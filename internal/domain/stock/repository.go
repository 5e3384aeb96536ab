package stock

import (
	"context"
	"time"

	"bikeshop/internal/core/id"
)

// Repository defines persistence for the movement ledger and balances.
type Repository interface {
	// Movement operations

	// CreateMovement appends one movement. Movements are never updated
	// or deleted; the ledger grows append-only.
	CreateMovement(ctx context.Context, m Movement) error

	// GetMovement retrieves a movement by id.
	GetMovement(ctx context.Context, movementID id.ID) (Movement, error)

	// ListMovements returns movement history, newest first.
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)

	// Balance operations

	// GetBalance returns current balance for (product, warehouse).
	// Returns a zero-quantity balance when no row exists.
	GetBalance(ctx context.Context, productID, warehouseID id.ID) (Balance, error)

	// GetBalanceForUpdate returns the balance with an exclusive row lock
	// held for the rest of the transaction. This is what serializes
	// concurrent check-then-decrement sequences on the same pair.
	GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (Balance, error)

	// SaveBalance upserts the balance row for (product, warehouse).
	// Called only by the Projector.
	SaveBalance(ctx context.Context, balance Balance) error

	// GetBalancesByWarehouse returns all non-zero balances for a warehouse.
	GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]Balance, error)
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID
	Kind        *Kind
	OriginKind  *OriginKind
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

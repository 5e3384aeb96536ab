package sales

import (
	"context"
	"time"

	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
)

// Repository defines persistence for sales and their lines.
type Repository interface {
	// Create inserts the sale header.
	Create(ctx context.Context, sale *Sale) error

	// SaveLines inserts the sale's lines.
	SaveLines(ctx context.Context, saleID id.ID, lines []SaleLine) error

	// SetTotal stores the final total as part of the creating transaction.
	SetTotal(ctx context.Context, saleID id.ID, total types.Money) error

	// GetByID retrieves a sale header (without lines).
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetLines retrieves a sale's lines ordered by line number.
	GetLines(ctx context.Context, saleID id.ID) ([]SaleLine, error)

	// List returns sale headers, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

// ListFilter narrows sale listing.
type ListFilter struct {
	ClientID    *id.ID
	WarehouseID *id.ID
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

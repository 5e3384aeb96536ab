// Package sales implements sale creation: one header plus its lines plus the
// stock debit for every line, committed or discarded as a single unit.
package sales

import (
	"context"
	"time"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
)

// Status of a sale. Sales are created COMPLETED; CANCELLED is a future
// transition that is never produced here.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Sale is a completed transaction header. Immutable after creation.
type Sale struct {
	ID          id.ID `db:"id" json:"id"`
	ClientID    id.ID `db:"client_id" json:"clientId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	Status      Status      `db:"status" json:"status"`
	Notes       string      `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Lines []SaleLine `db:"-" json:"lines"`
}

// SaleLine is one product/quantity/price row of a sale.
// Invariant: LineTotal == UnitPrice * Quantity, exactly.
type SaleLine struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewSale creates a sale header in the COMPLETED state with a zero total.
func NewSale(clientID, warehouseID id.ID, notes string) *Sale {
	return &Sale{
		ID:          id.New(),
		ClientID:    clientID,
		WarehouseID: warehouseID,
		TotalAmount: types.ZeroMoney(),
		Status:      StatusCompleted,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}
}

// LineInput is one requested line of a sale, in caller order.
type LineInput struct {
	ProductID id.ID
	Quantity  int64
	UnitPrice types.Money
}

// CreateSaleInput is the full request for one sale.
type CreateSaleInput struct {
	ClientID    id.ID
	WarehouseID id.ID
	Lines       []LineInput
	Notes       string
}

// Validate checks the input invariants that can be rejected before any
// write: identities present, at least one line, positive quantities,
// non-negative prices.
func (in *CreateSaleInput) Validate(ctx context.Context) error {
	if id.IsNil(in.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if id.IsNil(in.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range in.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewInvalidQuantity("line quantity must be greater than zero", line.Quantity).
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

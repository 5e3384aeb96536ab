// Package stock implements the movement ledger, the balance projector and
// the stock service. Balances are a projection: at all times the quantity of
// a (product, warehouse) pair equals the fold of its movement history.
package stock

import (
	"time"

	"bikeshop/internal/core/id"
)

// Kind defines movement direction.
type Kind string

const (
	// KindIn increases balance additively.
	KindIn Kind = "IN"
	// KindOut decreases balance additively.
	KindOut Kind = "OUT"
	// KindAdjust sets the balance to an absolute target.
	KindAdjust Kind = "ADJUST"
)

// OriginKind names the type of business document that caused a movement.
type OriginKind string

const (
	OriginPurchase     OriginKind = "PURCHASE"
	OriginSale         OriginKind = "SALE"
	OriginServiceOrder OriginKind = "SERVICE_ORDER"
	OriginManual       OriginKind = "MANUAL"
)

// Origin ties a movement to its originating document. Manual movements carry
// no document reference; every other kind carries the id of the document
// that produced it, so external audit can trace movements without this
// package knowing the shape of those documents.
type Origin struct {
	Kind       OriginKind `db:"origin_kind" json:"originKind"`
	DocumentID *id.ID     `db:"origin_id" json:"originId,omitempty"`
}

// ManualOrigin marks a movement entered by an operator.
func ManualOrigin() Origin {
	return Origin{Kind: OriginManual}
}

// PurchaseOrigin marks a movement caused by a purchase document.
func PurchaseOrigin(purchaseID id.ID) Origin {
	return Origin{Kind: OriginPurchase, DocumentID: &purchaseID}
}

// SaleOrigin marks a movement caused by a sale.
func SaleOrigin(saleID id.ID) Origin {
	return Origin{Kind: OriginSale, DocumentID: &saleID}
}

// ServiceOrderOrigin marks a movement caused by a workshop service order.
func ServiceOrderOrigin(orderID id.ID) Origin {
	return Origin{Kind: OriginServiceOrder, DocumentID: &orderID}
}

// Movement is an immutable stock event. Movements are never updated or
// deleted after creation; corrections are made by appending a new movement.
type Movement struct {
	ID          id.ID `db:"id" json:"id"`
	ProductID   id.ID `db:"product_id" json:"productId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Quantity is always positive; direction comes from Kind.
	// For ADJUST it holds the absolute difference between the prior and
	// target balance.
	Quantity int64 `db:"quantity" json:"quantity"`

	Kind Kind `db:"kind" json:"kind"`

	Origin

	// AdjustTarget is the exact balance an ADJUST movement sets.
	// Present only for ADJUST, so the ledger alone is enough to
	// reconstruct every balance.
	AdjustTarget *int64 `db:"adjust_target" json:"adjustTarget,omitempty"`

	Note string `db:"note" json:"note,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with generated ID and timestamp.
func NewMovement(productID, warehouseID id.ID, quantity int64, kind Kind, origin Origin, note string) Movement {
	return Movement{
		ID:          id.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		Kind:        kind,
		Origin:      origin,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
}

// SignedQuantity returns the additive effect of an IN or OUT movement.
// ADJUST is absolute, not additive; callers must use AdjustTarget for it.
func (m *Movement) SignedQuantity() int64 {
	if m.Kind == KindOut {
		return -m.Quantity
	}
	return m.Quantity
}

// Balance is the derived current quantity of a product in a warehouse.
// Rows are created lazily on first movement and mutated only by the
// Projector. Quantity is never negative.
type Balance struct {
	ProductID   id.ID `db:"product_id" json:"productId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	Quantity int64 `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

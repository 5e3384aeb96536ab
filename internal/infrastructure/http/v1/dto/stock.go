package dto

import (
	"time"

	"bikeshop/internal/domain/stock"
)

// --- Request DTOs ---

// StockOperationRequest is the body for add/remove operations.
// Quantity is deliberately not `binding:"required"`: required treats an
// explicit 0 as absent, and a zero quantity must reach the service so it is
// rejected as InvalidQuantity rather than a generic binding failure.
type StockOperationRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	WarehouseID string `json:"warehouseId" binding:"required"`
	Quantity    int64  `json:"quantity"`
	Note        string `json:"note"`
}

// StockAdjustRequest is the body for adjust operations.
// NewQuantity is a pointer so that an explicit 0 is distinguishable from an
// absent field.
type StockAdjustRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	WarehouseID string `json:"warehouseId" binding:"required"`
	NewQuantity *int64 `json:"newQuantity" binding:"required"`
	Note        string `json:"note"`
}

// --- Response DTOs ---

// MovementResponse represents a stock movement in API responses.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	WarehouseID  string    `json:"warehouseId"`
	Quantity     int64     `json:"quantity"`
	Kind         string    `json:"kind"`
	OriginKind   string    `json:"originKind"`
	OriginID     *string   `json:"originId,omitempty"`
	AdjustTarget *int64    `json:"adjustTarget,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromMovement converts a movement to its response DTO.
func FromMovement(m stock.Movement) MovementResponse {
	resp := MovementResponse{
		ID:           m.ID.String(),
		ProductID:    m.ProductID.String(),
		WarehouseID:  m.WarehouseID.String(),
		Quantity:     m.Quantity,
		Kind:         string(m.Kind),
		OriginKind:   string(m.Origin.Kind),
		AdjustTarget: m.AdjustTarget,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
	if m.Origin.DocumentID != nil {
		s := m.Origin.DocumentID.String()
		resp.OriginID = &s
	}
	return resp
}

// MovementListResponse represents a list of movements.
type MovementListResponse struct {
	Items      []MovementResponse `json:"items"`
	TotalCount int                `json:"totalCount,omitempty"`
}

// BalanceResponse represents a stock balance in API responses.
type BalanceResponse struct {
	ProductID      string     `json:"productId"`
	WarehouseID    string     `json:"warehouseId"`
	Quantity       int64      `json:"quantity"`
	LastMovementAt *time.Time `json:"lastMovementAt,omitempty"`
}

// FromBalance converts a balance to its response DTO.
func FromBalance(b stock.Balance) BalanceResponse {
	// Zero-value LastMovementAt means no movements yet; render null, not
	// "0001-01-01".
	var lastMovement *time.Time
	if !b.LastMovementAt.IsZero() {
		val := b.LastMovementAt
		lastMovement = &val
	}

	return BalanceResponse{
		ProductID:      b.ProductID.String(),
		WarehouseID:    b.WarehouseID.String(),
		Quantity:       b.Quantity,
		LastMovementAt: lastMovement,
	}
}

// BalanceListResponse represents a list of balances.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
}

// AvailabilityResponse reports whether a quantity is on hand.
type AvailabilityResponse struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	Requested   int64  `json:"requested"`
	Available   bool   `json:"available"`
}

package dto

import (
	"time"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/sales"
)

// --- Request DTOs ---

// SaleLineRequest is one line of a sale request.
type SaleLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest is the body for sale creation.
type CreateSaleRequest struct {
	ClientID    string            `json:"clientId" binding:"required"`
	WarehouseID string            `json:"warehouseId" binding:"required"`
	Notes       string            `json:"notes"`
	Lines       []SaleLineRequest `json:"lines" binding:"required"`
}

// ToInput converts the request into a domain input, parsing ids and prices.
func (r CreateSaleRequest) ToInput() (sales.CreateSaleInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return sales.CreateSaleInput{}, apperror.NewValidation("invalid clientId format")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return sales.CreateSaleInput{}, apperror.NewValidation("invalid warehouseId format")
	}

	input := sales.CreateSaleInput{
		ClientID:    clientID,
		WarehouseID: warehouseID,
		Notes:       r.Notes,
		Lines:       make([]sales.LineInput, 0, len(r.Lines)),
	}

	for i, l := range r.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return sales.CreateSaleInput{}, apperror.NewValidation("invalid productId format").
				WithDetail("line", i+1)
		}
		price, err := types.NewMoneyFromString(l.UnitPrice)
		if err != nil {
			return sales.CreateSaleInput{}, apperror.NewValidation("invalid unitPrice format").
				WithDetail("line", i+1)
		}
		input.Lines = append(input.Lines, sales.LineInput{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}

	return input, nil
}

// --- Response DTOs ---

// SaleLineResponse represents a sale line in API responses.
type SaleLineResponse struct {
	ID        string `json:"id"`
	LineNo    int    `json:"lineNo"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID          string             `json:"id"`
	ClientID    string             `json:"clientId"`
	WarehouseID string             `json:"warehouseId"`
	TotalAmount string             `json:"totalAmount"`
	Status      string             `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	Lines       []SaleLineResponse `json:"lines,omitempty"`
}

// FromSale converts a sale to its response DTO.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:          s.ID.String(),
		ClientID:    s.ClientID.String(),
		WarehouseID: s.WarehouseID.String(),
		TotalAmount: s.TotalAmount.StringFixed(2),
		Status:      string(s.Status),
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:        l.ID.String(),
			LineNo:    l.LineNo,
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return resp
}

// SaleListResponse represents a list of sale headers.
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	TotalCount int            `json:"totalCount,omitempty"`
}

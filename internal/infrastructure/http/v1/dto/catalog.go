package dto

import (
	"time"

	"bikeshop/internal/domain/catalog"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SalePrice string    `json:"salePrice"`
	Cost      string    `json:"cost"`
	IsService bool      `json:"isService"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromProduct converts a product to its response DTO.
func FromProduct(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		SalePrice: p.SalePrice.StringFixed(2),
		Cost:      p.Cost.StringFixed(2),
		IsService: p.IsService,
		CreatedAt: p.CreatedAt,
	}
}

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromWarehouse converts a warehouse to its response DTO.
func FromWarehouse(w *catalog.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
	}
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromClient converts a client to its response DTO.
func FromClient(c *catalog.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

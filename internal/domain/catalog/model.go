// Package catalog holds the master-data collaborators the core references:
// products, warehouses and clients. They are identity providers only — the
// ledger and sale services treat their ids as opaque.
package catalog

import (
	"context"
	"time"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
)

// Product is a sellable good or labor service.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	SalePrice types.Money `db:"sale_price" json:"salePrice"`
	Cost      types.Money `db:"cost" json:"cost"`

	// IsService marks labor services; derived from the product's
	// category by the catalog layer, not owned by the stock core.
	IsService bool `db:"is_service" json:"isService"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewProduct creates a product with generated ID.
func NewProduct(code, name string, salePrice, cost types.Money) *Product {
	return &Product{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		SalePrice: salePrice,
		Cost:      cost,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.SalePrice.IsNegative() || p.Cost.IsNegative() {
		return apperror.NewValidation("prices cannot be negative")
	}
	return nil
}

// Warehouse is an independent stock universe: balances never cross
// warehouses.
type Warehouse struct {
	ID       id.ID  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewWarehouse creates a warehouse with generated ID.
func NewWarehouse(name, location string) *Warehouse {
	return &Warehouse{
		ID:        id.New(),
		Name:      name,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks warehouse invariants.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// Client is a customer reference. Not validated beyond existence.
type Client struct {
	ID    id.ID  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewClient creates a client with generated ID.
func NewClient(name, email string) *Client {
	return &Client{
		ID:        id.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

package catalog

import (
	"context"

	"bikeshop/internal/core/id"
)

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// WarehouseRepository persists warehouses.
type WarehouseRepository interface {
	Create(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)
	List(ctx context.Context) ([]*Warehouse, error)
}

// ClientRepository persists clients.
type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, clientID id.ID) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
}

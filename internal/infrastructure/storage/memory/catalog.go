package memory

import (
	"context"
	"sort"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/catalog"
)

// ProductRepo implements catalog.ProductRepository over the store.
type ProductRepo struct {
	store *Store
}

// NewProductRepo creates an in-memory product repository.
func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	p, ok := r.store.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*catalog.Product, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, p := range r.store.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (r *ProductRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*catalog.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		product := p
		result = append(result, &product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// WarehouseRepo implements catalog.WarehouseRepository over the store.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepo creates an in-memory warehouse repository.
func NewWarehouseRepo(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

func (r *WarehouseRepo) Create(ctx context.Context, w *catalog.Warehouse) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*catalog.Warehouse, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	w, ok := r.store.warehouses[warehouseID]
	if !ok {
		return nil, apperror.NewNotFound("warehouse", warehouseID)
	}
	return &w, nil
}

func (r *WarehouseRepo) List(ctx context.Context) ([]*catalog.Warehouse, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*catalog.Warehouse, 0, len(r.store.warehouses))
	for _, w := range r.store.warehouses {
		warehouse := w
		result = append(result, &warehouse)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ClientRepo implements catalog.ClientRepository over the store.
type ClientRepo struct {
	store *Store
}

// NewClientRepo creates an in-memory client repository.
func NewClientRepo(store *Store) *ClientRepo {
	return &ClientRepo{store: store}
}

func (r *ClientRepo) Create(ctx context.Context, c *catalog.Client) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID id.ID) (*catalog.Client, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	c, ok := r.store.clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*catalog.Client, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*catalog.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		client := c
		result = append(result, &client)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Ensure interface compliance.
var (
	_ catalog.ProductRepository   = (*ProductRepo)(nil)
	_ catalog.WarehouseRepository = (*WarehouseRepo)(nil)
	_ catalog.ClientRepository    = (*ClientRepo)(nil)
)

package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/catalog"
)

const (
	productsTable   = "products"
	warehousesTable = "warehouses"
	clientsTable    = "clients"
)

// ProductRepo implements catalog.ProductRepository.
type ProductRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *TxManager) *ProductRepo {
	return &ProductRepo{txm: txm, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	q := r.builder.Insert(productsTable).
		Columns("id", "code", "name", "sale_price", "cost", "is_service", "created_at").
		Values(p.ID, p.Code, p.Name, p.SalePrice, p.Cost, p.IsService, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"id": productID}, productID)
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*catalog.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, code)
}

func (r *ProductRepo) getOne(ctx context.Context, where squirrel.Eq, ref any) (*catalog.Product, error) {
	q := r.builder.Select("id", "code", "name", "sale_price", "cost", "is_service", "created_at").
		From(productsTable).Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p catalog.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", ref)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	q := r.builder.Select("id", "code", "name", "sale_price", "cost", "is_service", "created_at").
		From(productsTable).OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*catalog.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return products, nil
}

// WarehouseRepo implements catalog.WarehouseRepository.
type WarehouseRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *TxManager) *WarehouseRepo {
	return &WarehouseRepo{txm: txm, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *WarehouseRepo) Create(ctx context.Context, w *catalog.Warehouse) error {
	q := r.builder.Insert(warehousesTable).
		Columns("id", "name", "location", "created_at").
		Values(w.ID, w.Name, w.Location, w.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*catalog.Warehouse, error) {
	q := r.builder.Select("id", "name", "location", "created_at").
		From(warehousesTable).Where(squirrel.Eq{"id": warehouseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w catalog.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", warehouseID)
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) List(ctx context.Context) ([]*catalog.Warehouse, error) {
	q := r.builder.Select("id", "name", "location", "created_at").
		From(warehousesTable).OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var warehouses []*catalog.Warehouse
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &warehouses, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	return warehouses, nil
}

// ClientRepo implements catalog.ClientRepository.
type ClientRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *TxManager) *ClientRepo {
	return &ClientRepo{txm: txm, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (r *ClientRepo) Create(ctx context.Context, c *catalog.Client) error {
	q := r.builder.Insert(clientsTable).
		Columns("id", "name", "email", "created_at").
		Values(c.ID, c.Name, c.Email, c.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID id.ID) (*catalog.Client, error) {
	q := r.builder.Select("id", "name", "email", "created_at").
		From(clientsTable).Where(squirrel.Eq{"id": clientID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c catalog.Client
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("client", clientID)
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*catalog.Client, error) {
	q := r.builder.Select("id", "name", "email", "created_at").
		From(clientsTable).OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var clients []*catalog.Client
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &clients, sql, args...); err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	return clients, nil
}

// Ensure interface compliance.
var (
	_ catalog.ProductRepository   = (*ProductRepo)(nil)
	_ catalog.WarehouseRepository = (*WarehouseRepo)(nil)
	_ catalog.ClientRepository    = (*ClientRepo)(nil)
)

// Package memory provides an in-process storage backend implementing the same
// repository contracts as the postgres package. It backs tests and local runs
// without a database; transactions take a store-wide lock and roll back by
// restoring a snapshot, so atomicity semantics match the real backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/tx"
	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/catalog"
	"bikeshop/internal/domain/sales"
	"bikeshop/internal/domain/stock"
)

type balanceKey struct {
	productID   id.ID
	warehouseID id.ID
}

// Store holds all state behind one mutex.
type Store struct {
	mu sync.Mutex

	movements []stock.Movement
	balances  map[balanceKey]stock.Balance

	sales     map[id.ID]sales.Sale
	saleLines map[id.ID][]sales.SaleLine

	products   map[id.ID]catalog.Product
	warehouses map[id.ID]catalog.Warehouse
	clients    map[id.ID]catalog.Client
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		balances:   make(map[balanceKey]stock.Balance),
		sales:      make(map[id.ID]sales.Sale),
		saleLines:  make(map[id.ID][]sales.SaleLine),
		products:   make(map[id.ID]catalog.Product),
		warehouses: make(map[id.ID]catalog.Warehouse),
		clients:    make(map[id.ID]catalog.Client),
	}
}

// snapshot deep-copies the mutable state. Caller must hold mu.
func (s *Store) snapshot() *Store {
	snap := NewStore()
	snap.movements = append([]stock.Movement(nil), s.movements...)
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.saleLines {
		snap.saleLines[k] = append([]sales.SaleLine(nil), v...)
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.warehouses {
		snap.warehouses[k] = v
	}
	for k, v := range s.clients {
		snap.clients[k] = v
	}
	return snap
}

// restore replaces state from a snapshot. Caller must hold mu.
func (s *Store) restore(snap *Store) {
	s.movements = snap.movements
	s.balances = snap.balances
	s.sales = snap.sales
	s.saleLines = snap.saleLines
	s.products = snap.products
	s.warehouses = snap.warehouses
	s.clients = snap.clients
}

type txMarker struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txMarker{}).(bool)
	return ok
}

// lock acquires the store mutex unless the context already runs inside a
// transaction, in which case TxManager holds it.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// TxManager implements tx.Manager with a store-wide lock and
// snapshot-restore rollback. Nested calls join the outer transaction.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager over the store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// RunInTransaction executes fn holding the store lock. On error the
// pre-transaction snapshot is restored, so no partial writes survive.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	txCtx := context.WithValue(ctx, txMarker{}, true)

	if err := fn(txCtx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// ReadOnly executes fn holding the store lock without write intent.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

var (
	_ tx.Manager         = (*TxManager)(nil)
	_ tx.ReadOnlyManager = (*TxManager)(nil)
)

// --- stock.Repository ---

// StockRepo implements stock.Repository over the store.
type StockRepo struct {
	store *Store
}

// NewStockRepo creates an in-memory stock repository.
func NewStockRepo(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) CreateMovement(ctx context.Context, m stock.Movement) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.movements = append(r.store.movements, m)
	return nil
}

func (r *StockRepo) GetMovement(ctx context.Context, movementID id.ID) (stock.Movement, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, m := range r.store.movements {
		if m.ID == movementID {
			return m, nil
		}
	}
	return stock.Movement{}, apperror.NewNotFound("movement", movementID)
}

func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var result []stock.Movement
	// Newest first: movements are appended in order.
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if !matchMovement(m, filter) {
			continue
		}
		result = append(result, m)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matchMovement(m stock.Movement, f stock.MovementFilter) bool {
	if f.ProductID != nil && m.ProductID != *f.ProductID {
		return false
	}
	if f.WarehouseID != nil && m.WarehouseID != *f.WarehouseID {
		return false
	}
	if f.Kind != nil && m.Kind != *f.Kind {
		return false
	}
	if f.OriginKind != nil && m.Origin.Kind != *f.OriginKind {
		return false
	}
	if f.FromDate != nil && m.CreatedAt.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && m.CreatedAt.After(*f.ToDate) {
		return false
	}
	return true
}

func (r *StockRepo) GetBalance(ctx context.Context, productID, warehouseID id.ID) (stock.Balance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	return r.balanceLocked(productID, warehouseID), nil
}

func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (stock.Balance, error) {
	// The transaction already holds the store-wide lock, which is stricter
	// than a row lock.
	unlock := r.store.lock(ctx)
	defer unlock()

	return r.balanceLocked(productID, warehouseID), nil
}

func (r *StockRepo) balanceLocked(productID, warehouseID id.ID) stock.Balance {
	if b, ok := r.store.balances[balanceKey{productID, warehouseID}]; ok {
		return b
	}
	return stock.Balance{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    0,
	}
}

func (r *StockRepo) SaveBalance(ctx context.Context, balance stock.Balance) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	balance.UpdatedAt = time.Now().UTC()
	r.store.balances[balanceKey{balance.ProductID, balance.WarehouseID}] = balance
	return nil
}

func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.Balance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var result []stock.Balance
	for k, b := range r.store.balances {
		if k.warehouseID == warehouseID && b.Quantity != 0 {
			result = append(result, b)
		}
	}
	return result, nil
}

var _ stock.Repository = (*StockRepo)(nil)

// --- sales.Repository ---

// SaleRepo implements sales.Repository over the store.
type SaleRepo struct {
	store *Store
}

// NewSaleRepo creates an in-memory sale repository.
func NewSaleRepo(store *Store) *SaleRepo {
	return &SaleRepo{store: store}
}

func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	header := *sale
	header.Lines = nil
	r.store.sales[sale.ID] = header
	return nil
}

func (r *SaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []sales.SaleLine) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.saleLines[saleID] = append([]sales.SaleLine(nil), lines...)
	return nil
}

func (r *SaleRepo) SetTotal(ctx context.Context, saleID id.ID, total types.Money) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	sale, ok := r.store.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID)
	}
	sale.TotalAmount = total
	r.store.sales[saleID] = sale
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	sale, ok := r.store.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return &sale, nil
}

func (r *SaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]sales.SaleLine, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	return append([]sales.SaleLine(nil), r.store.saleLines[saleID]...), nil
}

func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) ([]*sales.Sale, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var result []*sales.Sale
	for _, s := range r.store.sales {
		if filter.ClientID != nil && s.ClientID != *filter.ClientID {
			continue
		}
		if filter.WarehouseID != nil && s.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.FromDate != nil && s.CreatedAt.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && s.CreatedAt.After(*filter.ToDate) {
			continue
		}
		sale := s
		result = append(result, &sale)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

var _ sales.Repository = (*SaleRepo)(nil)

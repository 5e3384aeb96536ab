package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/stock"
)

const (
	stockMovementsTable = "stock_movements"
	stockBalancesTable  = "stock_balances"
)

// StockRepo implements stock.Repository over PostgreSQL.
type StockRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txm *TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovement appends one movement to the ledger.
// There is no Update or Delete counterpart on purpose.
func (r *StockRepo) CreateMovement(ctx context.Context, m stock.Movement) error {
	q := r.builder.Insert(stockMovementsTable).
		Columns(
			"id", "product_id", "warehouse_id", "quantity", "kind",
			"origin_kind", "origin_id", "adjust_target", "note", "created_at",
		).
		Values(
			m.ID, m.ProductID, m.WarehouseID, m.Quantity, m.Kind,
			m.Origin.Kind, m.Origin.DocumentID, m.AdjustTarget, m.Note, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// GetMovement retrieves a movement by id.
func (r *StockRepo) GetMovement(ctx context.Context, movementID id.ID) (stock.Movement, error) {
	var m stock.Movement

	q := r.movementSelect().Where(squirrel.Eq{"id": movementID})

	sql, args, err := q.ToSql()
	if err != nil {
		return m, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return m, apperror.NewNotFound("movement", movementID)
		}
		return m, fmt.Errorf("get movement: %w", err)
	}

	return m, nil
}

// ListMovements returns movement history, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	q := r.movementSelect()

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.OriginKind != nil {
		q = q.Where(squirrel.Eq{"origin_kind": *filter.OriginKind})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns current balance for (product, warehouse).
func (r *StockRepo) GetBalance(ctx context.Context, productID, warehouseID id.ID) (stock.Balance, error) {
	var balance stock.Balance

	q := r.builder.Select(
		"product_id", "warehouse_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{
			"product_id":   productID,
			"warehouse_id": warehouseID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Balance{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns the balance with a pessimistic row lock.
// When no row exists yet there is nothing to lock, so a zero row is
// materialized first (ON CONFLICT DO NOTHING) and then locked: two
// concurrent first movements for the same pair serialize on that insert
// instead of both proceeding from an unlocked synthesized zero. The seed
// row lives and dies with the enclosing transaction.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, productID, warehouseID id.ID) (stock.Balance, error) {
	var balance stock.Balance

	selectSQL := `
		SELECT product_id, warehouse_id, quantity, last_movement_at, updated_at
		FROM stock_balances
		WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE
	`

	querier := r.txm.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &balance, selectSQL, productID, warehouseID)
	if err == nil {
		return balance, nil
	}
	if !pgxscan.NotFound(err) {
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	seedSQL := `
		INSERT INTO stock_balances (product_id, warehouse_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, 0, 'epoch', NOW())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING
	`
	if _, err := querier.Exec(ctx, seedSQL, productID, warehouseID); err != nil {
		return balance, fmt.Errorf("seed balance row: %w", err)
	}

	if err := pgxscan.Get(ctx, querier, &balance, selectSQL, productID, warehouseID); err != nil {
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// SaveBalance upserts the balance row for (product, warehouse).
func (r *StockRepo) SaveBalance(ctx context.Context, balance stock.Balance) error {
	q := r.builder.Insert(stockBalancesTable).
		Columns("product_id", "warehouse_id", "quantity", "last_movement_at", "updated_at").
		Values(balance.ProductID, balance.WarehouseID, balance.Quantity, balance.LastMovementAt, squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (product_id, warehouse_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = NOW()`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}

	return nil
}

// GetBalancesByWarehouse returns all non-zero balances for a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.Balance, error) {
	q := r.builder.Select(
		"product_id", "warehouse_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

func (r *StockRepo) movementSelect() squirrel.SelectBuilder {
	return r.builder.Select(
		"id", "product_id", "warehouse_id", "quantity", "kind",
		"origin_kind", "origin_id", "adjust_target", "note", "created_at",
	).From(stockMovementsTable)
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

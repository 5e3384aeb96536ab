package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/sales"
)

const (
	salesTable     = "sales"
	saleLinesTable = "sale_lines"
)

// SaleRepo implements sales.Repository over PostgreSQL.
type SaleRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the sale header.
func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns("id", "client_id", "warehouse_id", "total_amount", "status", "notes", "created_at").
		Values(sale.ID, sale.ClientID, sale.WarehouseID, sale.TotalAmount, sale.Status, sale.Notes, sale.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// SaveLines inserts the sale's lines.
func (r *SaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []sales.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(saleLinesTable).
		Columns("id", "sale_id", "line_no", "product_id", "quantity", "unit_price", "line_total")

	for _, line := range lines {
		q = q.Values(line.ID, saleID, line.LineNo, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// SetTotal stores the accumulated total on the header.
func (r *SaleRepo) SetTotal(ctx context.Context, saleID id.ID, total types.Money) error {
	q := r.builder.Update(salesTable).
		Set("total_amount", total).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID)
	}

	return nil
}

// GetByID retrieves a sale header.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	q := r.builder.Select(
		"id", "client_id", "warehouse_id", "total_amount", "status", "notes", "created_at",
	).From(salesTable).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	return &sale, nil
}

// GetLines retrieves a sale's lines ordered by line number.
func (r *SaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]sales.SaleLine, error) {
	q := r.builder.Select(
		"id", "sale_id", "line_no", "product_id", "quantity", "unit_price", "line_total",
	).From(saleLinesTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales.SaleLine
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// List returns sale headers, newest first.
func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) ([]*sales.Sale, error) {
	q := r.builder.Select(
		"id", "client_id", "warehouse_id", "total_amount", "status", "notes", "created_at",
	).From(salesTable)

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
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

	var result []*sales.Sale
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}

	return result, nil
}

// Ensure interface compliance.
var _ sales.Repository = (*SaleRepo)(nil)

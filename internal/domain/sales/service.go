package sales

import (
	"context"
	"fmt"

	"bikeshop/internal/core/id"
	"bikeshop/internal/core/tx"
	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/stock"
	"bikeshop/pkg/logger"
)

// StockDebiter is the slice of the stock service a sale needs: one debit per
// line, inside the sale's transaction.
type StockDebiter interface {
	RemoveStock(ctx context.Context, productID, warehouseID id.ID, quantity int64, origin stock.Origin, note string) (*stock.Movement, error)
}

// Service orchestrates sale creation.
type Service struct {
	repo  Repository
	stock StockDebiter
	txm   tx.Manager
}

// NewService creates a new sale service.
func NewService(repo Repository, stockSvc StockDebiter, txm tx.Manager) *Service {
	return &Service{
		repo:  repo,
		stock: stockSvc,
		txm:   txm,
	}
}

// CreateSale creates the header, its lines and one stock debit per line as a
// single unit of work. Any failure — insufficient stock, invalid quantity, a
// missing referenced row — aborts the transaction, so no header, line or
// movement from this call survives. Lines are processed in the given order;
// when several lines would fail, the first one in order is the failure
// reported.
func (s *Service) CreateSale(ctx context.Context, input CreateSaleInput) (*Sale, error) {
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	sale := NewSale(input.ClientID, input.WarehouseID, input.Notes)

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		total := types.ZeroMoney()
		for i, in := range input.Lines {
			line := SaleLine{
				ID:        id.New(),
				SaleID:    sale.ID,
				LineNo:    i + 1,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				LineTotal: types.MulQuantity(in.UnitPrice, in.Quantity),
			}
			sale.Lines = append(sale.Lines, line)
			total = total.Add(line.LineTotal)

			// Joins this transaction; an InsufficientStock here rolls
			// back the header and every prior line and debit.
			_, err := s.stock.RemoveStock(ctx,
				in.ProductID,
				sale.WarehouseID,
				in.Quantity,
				stock.SaleOrigin(sale.ID),
				fmt.Sprintf("sale %s", sale.ID),
			)
			if err != nil {
				return err
			}
		}

		if err := s.repo.SaveLines(ctx, sale.ID, sale.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		sale.TotalAmount = total
		if err := s.repo.SetTotal(ctx, sale.ID, total); err != nil {
			return fmt.Errorf("set total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"id", sale.ID,
		"client_id", sale.ClientID,
		"warehouse_id", sale.WarehouseID,
		"lines", len(sale.Lines),
		"total", sale.TotalAmount.String(),
	)
	return sale, nil
}

// GetByID retrieves a sale with its lines.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	sale.Lines = lines

	return sale, nil
}

// List returns sale headers, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.List(ctx, filter)
}

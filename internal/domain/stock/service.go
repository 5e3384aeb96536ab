package stock

import (
	"context"
	"fmt"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/tx"
	"bikeshop/pkg/logger"
)

// Service provides the public stock operations. Every mutating operation is
// one serializable unit of work: fully applied or fully rolled back. Nested
// calls (a sale debiting its lines) join the caller's transaction instead of
// opening their own.
type Service struct {
	ledger *Ledger
	repo   Repository
	txm    tx.Manager
}

// NewService creates a new stock service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		ledger: NewLedger(repo),
		repo:   repo,
		txm:    txm,
	}
}

// AddStock records an IN movement and increments the balance.
// Quantity must be positive.
func (s *Service) AddStock(ctx context.Context, productID, warehouseID id.ID, quantity int64, origin Origin, note string) (*Movement, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity("quantity must be greater than zero", quantity)
	}

	var movement *Movement
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.ledger.Record(ctx, NewMovement(productID, warehouseID, quantity, KindIn, origin, note))
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock added",
		"product_id", productID,
		"warehouse_id", warehouseID,
		"quantity", quantity,
		"origin", origin.Kind,
	)
	return movement, nil
}

// RemoveStock records an OUT movement and decrements the balance.
// Quantity must be positive and must not exceed the current balance;
// otherwise the operation fails with InsufficientStock and nothing is
// written.
func (s *Service) RemoveStock(ctx context.Context, productID, warehouseID id.ID, quantity int64, origin Origin, note string) (*Movement, error) {
	if quantity <= 0 {
		return nil, apperror.NewInvalidQuantity("quantity must be greater than zero", quantity)
	}

	var movement *Movement
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.ledger.Record(ctx, NewMovement(productID, warehouseID, quantity, KindOut, origin, note))
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock removed",
		"product_id", productID,
		"warehouse_id", warehouseID,
		"quantity", quantity,
		"origin", origin.Kind,
	)
	return movement, nil
}

// AdjustStock sets the balance to exactly newQuantity, recording an ADJUST
// movement whose quantity is the absolute difference from the prior balance.
// When the balance already equals newQuantity, nothing is recorded and nil
// is returned.
func (s *Service) AdjustStock(ctx context.Context, productID, warehouseID id.ID, newQuantity int64, note string) (*Movement, error) {
	if newQuantity < 0 {
		return nil, apperror.NewInvalidQuantity("quantity cannot be negative", newQuantity)
	}

	var movement *Movement
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock the row up front so the diff stays valid until the
		// projector applies it.
		balance, err := s.repo.GetBalanceForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return fmt.Errorf("get balance for update: %w", err)
		}

		diff := newQuantity - balance.Quantity
		if diff == 0 {
			return nil
		}

		m := NewMovement(productID, warehouseID, abs(diff), KindAdjust, ManualOrigin(), note)
		target := newQuantity
		m.AdjustTarget = &target

		recorded, err := s.ledger.Record(ctx, m)
		if err != nil {
			return err
		}
		movement = recorded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if movement != nil {
		logger.Info(ctx, "stock adjusted",
			"product_id", productID,
			"warehouse_id", warehouseID,
			"new_quantity", newQuantity,
		)
	}
	return movement, nil
}

// GetBalance returns the current quantity for (product, warehouse).
// Returns 0 when no balance row exists; never an error for a missing row.
func (s *Service) GetBalance(ctx context.Context, productID, warehouseID id.ID) (int64, error) {
	balance, err := s.repo.GetBalance(ctx, productID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance.Quantity, nil
}

// CheckAvailability reports whether at least quantity units are on hand.
func (s *Service) CheckAvailability(ctx context.Context, productID, warehouseID id.ID, quantity int64) (bool, error) {
	balance, err := s.GetBalance(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	return balance >= quantity, nil
}

// MovementHistory returns movement history, newest first.
func (s *Service) MovementHistory(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.ListMovements(ctx, filter)
}

// WarehouseBalances returns all non-zero balances in a warehouse.
func (s *Service) WarehouseBalances(ctx context.Context, warehouseID id.ID) ([]Balance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

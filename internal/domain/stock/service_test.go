package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/storage/memory"
)

func newTestService() (*stock.Service, stock.Repository) {
	store := memory.NewStore()
	repo := memory.NewStockRepo(store)
	return stock.NewService(repo, memory.NewTxManager(store)), repo
}

func TestAddStock_IncrementsBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	movement, err := svc.AddStock(ctx, productID, warehouseID, 10, stock.ManualOrigin(), "delivery")
	require.NoError(t, err)
	require.NotNil(t, movement)
	assert.Equal(t, stock.KindIn, movement.Kind)
	assert.Equal(t, int64(10), movement.Quantity)

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestAddStock_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, qty := range []int64{0, -5} {
		_, err := svc.AddStock(ctx, id.New(), id.New(), qty, stock.ManualOrigin(), "")
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidQuantity(err))
	}
}

func TestRemoveStock_DecrementsBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 10, stock.ManualOrigin(), "")
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, productID, warehouseID, 4, stock.ManualOrigin(), "")
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)
}

func TestRemoveStock_InsufficientLeavesBalanceUntouched(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 3, stock.ManualOrigin(), "")
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, productID, warehouseID, 5, stock.ManualOrigin(), "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)

	// The failed movement must not appear in history either.
	history, err := svc.MovementHistory(ctx, stock.MovementFilter{ProductID: &productID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, stock.KindIn, history[0].Kind)
}

func TestRemoveStock_FromEmptyBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RemoveStock(ctx, id.New(), id.New(), 1, stock.ManualOrigin(), "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(0), appErr.Details["available"])
}

func TestAdjustStock_SetsExactBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 10, stock.ManualOrigin(), "")
	require.NoError(t, err)

	movement, err := svc.AdjustStock(ctx, productID, warehouseID, 7, "annual count")
	require.NoError(t, err)
	require.NotNil(t, movement)
	assert.Equal(t, stock.KindAdjust, movement.Kind)
	assert.Equal(t, int64(3), movement.Quantity)
	require.NotNil(t, movement.AdjustTarget)
	assert.Equal(t, int64(7), *movement.AdjustTarget)

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance)
}

func TestAdjustStock_UpwardFromZero(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	movement, err := svc.AdjustStock(ctx, productID, warehouseID, 15, "found stock")
	require.NoError(t, err)
	require.NotNil(t, movement)
	assert.Equal(t, int64(15), movement.Quantity)

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)
}

func TestAdjustStock_NoOpRecordsNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 5, stock.ManualOrigin(), "")
	require.NoError(t, err)

	movement, err := svc.AdjustStock(ctx, productID, warehouseID, 5, "count matches")
	require.NoError(t, err)
	assert.Nil(t, movement)

	history, err := svc.MovementHistory(ctx, stock.MovementFilter{ProductID: &productID})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAdjustStock_RejectsNegativeTarget(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AdjustStock(ctx, id.New(), id.New(), -1, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidQuantity(err))
}

func TestBalances_IndependentPerWarehouse(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseA := id.New()
	warehouseB := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseA, 10, stock.ManualOrigin(), "")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, productID, warehouseB, 20, stock.ManualOrigin(), "")
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, productID, warehouseA, 4, stock.ManualOrigin(), "")
	require.NoError(t, err)

	balanceA, err := svc.GetBalance(ctx, productID, warehouseA)
	require.NoError(t, err)
	balanceB, err := svc.GetBalance(ctx, productID, warehouseB)
	require.NoError(t, err)

	assert.Equal(t, int64(6), balanceA)
	assert.Equal(t, int64(20), balanceB)

	// Removing more than A holds must fail even though B has plenty.
	_, err = svc.RemoveStock(ctx, productID, warehouseA, 10, stock.ManualOrigin(), "")
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestGetBalance_MissingRowIsZero(t *testing.T) {
	svc, _ := newTestService()

	balance, err := svc.GetBalance(context.Background(), id.New(), id.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 5, stock.ManualOrigin(), "")
	require.NoError(t, err)

	ok, err := svc.CheckAvailability(ctx, productID, warehouseID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAvailability(ctx, productID, warehouseID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Balance must always equal the fold of the movement history, whatever the
// interleaving of operations.
func TestBalance_EqualsLedgerFold(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	type op struct {
		kind string
		qty  int64
	}
	ops := []op{
		{"add", 10}, {"remove", 3}, {"add", 5}, {"adjust", 20},
		{"remove", 8}, {"adjust", 12}, {"add", 1},
	}

	for _, o := range ops {
		var err error
		switch o.kind {
		case "add":
			_, err = svc.AddStock(ctx, productID, warehouseID, o.qty, stock.ManualOrigin(), "")
		case "remove":
			_, err = svc.RemoveStock(ctx, productID, warehouseID, o.qty, stock.ManualOrigin(), "")
		case "adjust":
			_, err = svc.AdjustStock(ctx, productID, warehouseID, o.qty, "")
		}
		require.NoError(t, err)
	}

	history, err := svc.MovementHistory(ctx, stock.MovementFilter{ProductID: &productID})
	require.NoError(t, err)

	// Fold oldest first: IN/OUT are additive, ADJUST resets to its target.
	var fold int64
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Kind == stock.KindAdjust {
			fold = *m.AdjustTarget
			continue
		}
		fold += m.SignedQuantity()
	}

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, fold, balance)
	assert.Equal(t, int64(6), balance)
}

func TestRemoveStock_ConcurrentNeverOverdraws(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 50, stock.ManualOrigin(), "")
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RemoveStock(ctx, productID, warehouseID, 5, stock.ManualOrigin(), "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
		}
	}
	// 50 units / 5 per removal: exactly 10 must win.
	assert.Equal(t, 10, succeeded)

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestAddStock_ConcurrentFirstMovementsAllCounted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Brand-new pair: no balance row exists before the first movement, so
	// every writer must still serialize and fold its quantity in.
	productID := id.New()
	warehouseID := id.New()

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddStock(ctx, productID, warehouseID, 5, stock.ManualOrigin(), "")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	balance, err := svc.GetBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*5), balance)

	movements, err := svc.MovementHistory(ctx, stock.MovementFilter{ProductID: &productID})
	require.NoError(t, err)
	assert.Len(t, movements, workers)
}

func TestMovementHistory_Filters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	saleID := id.New()

	_, err := svc.AddStock(ctx, productID, warehouseID, 10, stock.PurchaseOrigin(id.New()), "")
	require.NoError(t, err)
	_, err = svc.RemoveStock(ctx, productID, warehouseID, 2, stock.SaleOrigin(saleID), "")
	require.NoError(t, err)
	_, err = svc.RemoveStock(ctx, productID, warehouseID, 1, stock.ManualOrigin(), "")
	require.NoError(t, err)

	kindOut := stock.KindOut
	outs, err := svc.MovementHistory(ctx, stock.MovementFilter{ProductID: &productID, Kind: &kindOut})
	require.NoError(t, err)
	assert.Len(t, outs, 2)

	saleOrigin := stock.OriginSale
	sold, err := svc.MovementHistory(ctx, stock.MovementFilter{OriginKind: &saleOrigin})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	require.NotNil(t, sold[0].Origin.DocumentID)
	assert.Equal(t, saleID, *sold[0].Origin.DocumentID)
}

package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/sales"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/storage/memory"
)

type fixture struct {
	saleSvc  *sales.Service
	stockSvc *stock.Service
}

func newFixture() fixture {
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	stockSvc := stock.NewService(memory.NewStockRepo(store), txm)
	saleSvc := sales.NewService(memory.NewSaleRepo(store), stockSvc, txm)
	return fixture{saleSvc: saleSvc, stockSvc: stockSvc}
}

func (f fixture) stockUp(t *testing.T, productID, warehouseID id.ID, qty int64) {
	t.Helper()
	_, err := f.stockSvc.AddStock(context.Background(), productID, warehouseID, qty, stock.ManualOrigin(), "")
	require.NoError(t, err)
}

func TestCreateSale_TotalsAndDebits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := id.New()
	warehouseID := id.New()
	tire := id.New()
	tuneup := id.New()

	f.stockUp(t, tire, warehouseID, 10)
	f.stockUp(t, tuneup, warehouseID, 5)

	sale, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
		ClientID:    clientID,
		WarehouseID: warehouseID,
		Lines: []sales.LineInput{
			{ProductID: tire, Quantity: 2, UnitPrice: types.MustMoney("150.00")},
			{ProductID: tuneup, Quantity: 1, UnitPrice: types.MustMoney("100.00")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, sales.StatusCompleted, sale.Status)
	require.Len(t, sale.Lines, 2)
	assert.Equal(t, "300.00", sale.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "100.00", sale.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "400.00", sale.TotalAmount.StringFixed(2))

	// Each line debited stock with the sale as origin.
	tireBalance, err := f.stockSvc.GetBalance(ctx, tire, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), tireBalance)

	saleOrigin := stock.OriginSale
	movements, err := f.stockSvc.MovementHistory(ctx, stock.MovementFilter{OriginKind: &saleOrigin})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		require.NotNil(t, m.Origin.DocumentID)
		assert.Equal(t, sale.ID, *m.Origin.DocumentID)
	}
}

func TestCreateSale_LineNumbersFollowInputOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	first := id.New()
	second := id.New()
	f.stockUp(t, first, warehouseID, 10)
	f.stockUp(t, second, warehouseID, 10)

	sale, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
		ClientID:    id.New(),
		WarehouseID: warehouseID,
		Lines: []sales.LineInput{
			{ProductID: first, Quantity: 1, UnitPrice: types.MustMoney("10.00")},
			{ProductID: second, Quantity: 1, UnitPrice: types.MustMoney("20.00")},
		},
	})
	require.NoError(t, err)

	loaded, err := f.saleSvc.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, 1, loaded.Lines[0].LineNo)
	assert.Equal(t, first, loaded.Lines[0].ProductID)
	assert.Equal(t, 2, loaded.Lines[1].LineNo)
	assert.Equal(t, second, loaded.Lines[1].ProductID)
}

func TestCreateSale_InsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	plenty := id.New()
	scarce := id.New()
	f.stockUp(t, plenty, warehouseID, 100)
	f.stockUp(t, scarce, warehouseID, 1)

	_, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
		ClientID:    id.New(),
		WarehouseID: warehouseID,
		Lines: []sales.LineInput{
			{ProductID: plenty, Quantity: 10, UnitPrice: types.MustMoney("5.00")},
			{ProductID: scarce, Quantity: 2, UnitPrice: types.MustMoney("30.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// First line's debit must have been rolled back with the rest.
	balance, err := f.stockSvc.GetBalance(ctx, plenty, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	// No header, no lines, no movements survive.
	list, err := f.saleSvc.List(ctx, sales.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	saleOrigin := stock.OriginSale
	movements, err := f.stockSvc.MovementHistory(ctx, stock.MovementFilter{OriginKind: &saleOrigin})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCreateSale_FirstFailingLineReported(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	missingA := id.New()
	missingB := id.New()

	_, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
		ClientID:    id.New(),
		WarehouseID: warehouseID,
		Lines: []sales.LineInput{
			{ProductID: missingA, Quantity: 1, UnitPrice: types.MustMoney("1.00")},
			{ProductID: missingB, Quantity: 1, UnitPrice: types.MustMoney("1.00")},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, missingA.String(), appErr.Details["product_id"])
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	productID := id.New()
	f.stockUp(t, productID, warehouseID, 10)

	tests := []struct {
		name  string
		input sales.CreateSaleInput
		check func(t *testing.T, err error)
	}{
		{
			name: "missing client",
			input: sales.CreateSaleInput{
				WarehouseID: warehouseID,
				Lines:       []sales.LineInput{{ProductID: productID, Quantity: 1, UnitPrice: types.MustMoney("1.00")}},
			},
			check: func(t *testing.T, err error) {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			},
		},
		{
			name: "no lines",
			input: sales.CreateSaleInput{
				ClientID:    id.New(),
				WarehouseID: warehouseID,
			},
			check: func(t *testing.T, err error) {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			},
		},
		{
			name: "zero quantity line",
			input: sales.CreateSaleInput{
				ClientID:    id.New(),
				WarehouseID: warehouseID,
				Lines:       []sales.LineInput{{ProductID: productID, Quantity: 0, UnitPrice: types.MustMoney("1.00")}},
			},
			check: func(t *testing.T, err error) {
				assert.True(t, apperror.IsInvalidQuantity(err))
			},
		},
		{
			name: "negative price line",
			input: sales.CreateSaleInput{
				ClientID:    id.New(),
				WarehouseID: warehouseID,
				Lines:       []sales.LineInput{{ProductID: productID, Quantity: 1, UnitPrice: types.MustMoney("-1.00")}},
			},
			check: func(t *testing.T, err error) {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.saleSvc.CreateSale(ctx, tt.input)
			require.Error(t, err)
			tt.check(t, err)

			// Validation failures must not touch stock.
			balance, err := f.stockSvc.GetBalance(ctx, productID, warehouseID)
			require.NoError(t, err)
			assert.Equal(t, int64(10), balance)
		})
	}
}

func TestCreateSale_ZeroPriceLineAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	freebie := id.New()
	f.stockUp(t, freebie, warehouseID, 5)

	sale, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
		ClientID:    id.New(),
		WarehouseID: warehouseID,
		Lines: []sales.LineInput{
			{ProductID: freebie, Quantity: 1, UnitPrice: types.ZeroMoney()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", sale.TotalAmount.StringFixed(2))
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.saleSvc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_FiltersByClient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	warehouseID := id.New()
	productID := id.New()
	f.stockUp(t, productID, warehouseID, 100)

	clientA := id.New()
	clientB := id.New()

	for _, clientID := range []id.ID{clientA, clientA, clientB} {
		_, err := f.saleSvc.CreateSale(ctx, sales.CreateSaleInput{
			ClientID:    clientID,
			WarehouseID: warehouseID,
			Lines: []sales.LineInput{
				{ProductID: productID, Quantity: 1, UnitPrice: types.MustMoney("9.90")},
			},
		})
		require.NoError(t, err)
	}

	all, err := f.saleSvc.List(ctx, sales.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := f.saleSvc.List(ctx, sales.ListFilter{ClientID: &clientA})
	require.NoError(t, err)
	assert.Len(t, forA, 2)
}

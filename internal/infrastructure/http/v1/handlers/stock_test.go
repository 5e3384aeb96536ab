package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/http/v1/handlers"
	"bikeshop/internal/infrastructure/http/v1/middleware"
	"bikeshop/internal/infrastructure/storage/memory"
)

func newStockRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	service := stock.NewService(memory.NewStockRepo(store), memory.NewTxManager(store))
	handler := handlers.NewStockHandler(handlers.NewBaseHandler(), service)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler.RegisterRoutes(r.Group("/stock"))
	return r
}

func postJSON(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var parsed map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func TestAddStock_ZeroQuantityReportedAsInvalidQuantity(t *testing.T) {
	r := newStockRouter()

	// An explicit zero must reach the service check, not die in binding.
	body := `{"productId":"` + id.New().String() + `","warehouseId":"` + id.New().String() + `","quantity":0}`
	w, resp := postJSON(r, "/stock/add", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidQuantity, resp["code"])
	assert.Equal(t, "Erro: quantity must be greater than zero", resp["message"])
}

func TestRemoveStock_NegativeQuantityReportedAsInvalidQuantity(t *testing.T) {
	r := newStockRouter()

	body := `{"productId":"` + id.New().String() + `","warehouseId":"` + id.New().String() + `","quantity":-3}`
	w, resp := postJSON(r, "/stock/remove", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidQuantity, resp["code"])
}

func TestAddStock_CreatesMovement(t *testing.T) {
	r := newStockRouter()

	productID := id.New().String()
	warehouseID := id.New().String()
	body := `{"productId":"` + productID + `","warehouseId":"` + warehouseID + `","quantity":7,"note":"delivery"}`
	w, resp := postJSON(r, "/stock/add", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, productID, resp["productId"])
	assert.Equal(t, float64(7), resp["quantity"])
	assert.Equal(t, string(stock.KindIn), resp["kind"])
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshop/internal/core/apperror"
)

func setupRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", handler)
	return r
}

func doRequest(r *gin.Engine) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandler_AppErrorRendered(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("p1", "w1", 5, 3))
		c.Abort()
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	assert.Equal(t, "Erro: insufficient stock: requested 5, available 3", body["message"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", details["product_id"])
	assert.Equal(t, float64(5), details["requested"])
	assert.Equal(t, float64(3), details["available"])
}

func TestErrorHandler_MessagePrefix(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		_ = c.Error(apperror.NewInvalidQuantity("quantity must be greater than zero", 0))
		c.Abort()
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro: quantity must be greater than zero", body["message"])
}

func TestErrorHandler_UnknownErrorHidden(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection reset"))
		c.Abort()
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "Erro: internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
}

func TestErrorHandler_WrittenResponseNotOverridden(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "abc"})
		_ = c.Error(errors.New("late error"))
	})

	w, body := doRequest(r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "abc", body["id"])
}

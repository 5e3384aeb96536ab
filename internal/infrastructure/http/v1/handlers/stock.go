package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock operations.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// AddStock handles POST /stock/add
func (h *StockHandler) AddStock(c *gin.Context) {
	var req dto.StockOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, warehouseID, ok := h.parsePair(c, req.ProductID, req.WarehouseID)
	if !ok {
		return
	}

	movement, err := h.service.AddStock(c.Request.Context(), productID, warehouseID, req.Quantity, stock.ManualOrigin(), req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(*movement))
}

// RemoveStock handles POST /stock/remove
func (h *StockHandler) RemoveStock(c *gin.Context) {
	var req dto.StockOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, warehouseID, ok := h.parsePair(c, req.ProductID, req.WarehouseID)
	if !ok {
		return
	}

	movement, err := h.service.RemoveStock(c.Request.Context(), productID, warehouseID, req.Quantity, stock.ManualOrigin(), req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(*movement))
}

// AdjustStock handles POST /stock/adjust
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req dto.StockAdjustRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, warehouseID, ok := h.parsePair(c, req.ProductID, req.WarehouseID)
	if !ok {
		return
	}

	movement, err := h.service.AdjustStock(c.Request.Context(), productID, warehouseID, *req.NewQuantity, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Balance already matched the target: nothing was recorded.
	if movement == nil {
		h.NoContent(c)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(*movement))
}

// GetBalance handles GET /stock/balance
func (h *StockHandler) GetBalance(c *gin.Context) {
	productID, warehouseID, ok := h.parsePairQuery(c)
	if !ok {
		return
	}

	quantity, err := h.service.GetBalance(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId":   productID.String(),
		"warehouseId": warehouseID.String(),
		"quantity":    quantity,
	})
}

// CheckAvailability handles GET /stock/availability
func (h *StockHandler) CheckAvailability(c *gin.Context) {
	productID, warehouseID, ok := h.parsePairQuery(c)
	if !ok {
		return
	}

	quantity := int64(h.ParseIntQuery(c, "quantity", 1))
	if quantity <= 0 {
		h.Error(c, apperror.NewInvalidQuantity("quantity must be greater than zero", quantity))
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), productID, warehouseID, quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		ProductID:   productID.String(),
		WarehouseID: warehouseID.String(),
		Requested:   quantity,
		Available:   available,
	})
}

// GetMovements handles GET /stock/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		filter.ProductID = &parsed
	}

	if whStr := c.Query("warehouseId"); whStr != "" {
		parsed, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		filter.WarehouseID = &parsed
	}

	if kStr := c.Query("kind"); kStr != "" {
		kind := stock.Kind(kStr)
		filter.Kind = &kind
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}
	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.MovementHistory(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	c.JSON(http.StatusOK, dto.MovementListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// GetWarehouseBalances handles GET /stock/balances/:warehouseId
func (h *StockHandler) GetWarehouseBalances(c *gin.Context) {
	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return
	}

	balances, err := h.service.WarehouseBalances(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromBalance(b)
	}

	c.JSON(http.StatusOK, dto.BalanceListResponse{Items: items})
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/add", h.AddStock)
	rg.POST("/remove", h.RemoveStock)
	rg.POST("/adjust", h.AdjustStock)
	rg.GET("/balance", h.GetBalance)
	rg.GET("/balances/:warehouseId", h.GetWarehouseBalances)
	rg.GET("/availability", h.CheckAvailability)
	rg.GET("/movements", h.GetMovements)
}

func (h *StockHandler) parsePair(c *gin.Context, productStr, warehouseStr string) (id.ID, id.ID, bool) {
	productID, err := id.Parse(productStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return id.Nil(), id.Nil(), false
	}
	warehouseID, err := id.Parse(warehouseStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return id.Nil(), id.Nil(), false
	}
	return productID, warehouseID, true
}

func (h *StockHandler) parsePairQuery(c *gin.Context) (id.ID, id.ID, bool) {
	if c.Query("productId") == "" || c.Query("warehouseId") == "" {
		h.Error(c, apperror.NewValidation("productId and warehouseId are required"))
		return id.Nil(), id.Nil(), false
	}
	return h.parsePair(c, c.Query("productId"), c.Query("warehouseId"))
}

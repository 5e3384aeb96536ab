package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bikeshop/internal/core/apperror"
	"bikeshop/internal/core/id"
	"bikeshop/internal/domain/catalog"
	"bikeshop/internal/infrastructure/http/v1/dto"
)

// CatalogHandler exposes read-only lookups for products, warehouses and
// clients. Master-data management lives elsewhere; the API only needs enough
// to drive stock and sale operations.
type CatalogHandler struct {
	*BaseHandler
	products   catalog.ProductRepository
	warehouses catalog.WarehouseRepository
	clients    catalog.ClientRepository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, products catalog.ProductRepository, warehouses catalog.WarehouseRepository, clients catalog.ClientRepository) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		products:    products,
		warehouses:  warehouses,
		clients:     clients,
	}
}

// ListProducts handles GET /catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		items[i] = dto.FromProduct(p)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProduct handles GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProduct(product))
}

// ListWarehouses handles GET /catalog/warehouses
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouses.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		items[i] = dto.FromWarehouse(w)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListClients handles GET /catalog/clients
func (h *CatalogHandler) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ClientResponse, len(clients))
	for i, cl := range clients {
		items[i] = dto.FromClient(cl)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RegisterRoutes registers catalog routes.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
	rg.GET("/warehouses", h.ListWarehouses)
	rg.GET("/clients", h.ListClients)
}

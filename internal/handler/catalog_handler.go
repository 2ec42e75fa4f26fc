package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

// CatalogHandler serves read-only product and category views.
type CatalogHandler struct {
	products   storage.ProductRepository
	categories storage.CategoryRepository
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(products storage.ProductRepository, categories storage.CategoryRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// ListProducts returns the full product list with images and params
// attached. Optional query params narrow the result: category_id for one
// category, or keyword with sort/order for a filtered, sorted list.
// Route: GET /api/v1/products?category_id=3
// Route: GET /api/v1/products?keyword=kite&sort=name&order=asc
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if keyword := c.Query("keyword"); keyword != "" {
		sortField := c.DefaultQuery("sort", "created_at")
		if !storage.ValidProductSort(sortField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort field"})
			return
		}
		products, err := h.products.Search(ctx, keyword, sortField, c.DefaultQuery("order", "desc"))
		if err != nil {
			h.logger.Error("searching products", zap.String("keyword", keyword), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		products, err := h.products.ListByCategory(ctx, categoryID)
		if err != nil {
			h.logger.Error("listing products by category", zap.Int64("category_id", categoryID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	products, err := h.products.ListAll(ctx)
	if err != nil {
		h.logger.Error("listing products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns one product by id.
// Route: GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading product", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListCategories returns all categories in sort order.
// Route: GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.logger.Error("listing categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns one category by id.
// Route: GET /api/v1/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		h.logger.Error("loading category", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, category)
}

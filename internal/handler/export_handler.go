package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
	"github.com/Blazer-YJJ/showcase-backend/internal/service"
)

// ExportHandler exposes the catalog export operations.
type ExportHandler struct {
	exports *service.ExportService
	logger  *zap.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exports *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		logger:  logger,
	}
}

// searchExportRequest is the body for keyword exports.
type searchExportRequest struct {
	Keyword   string `json:"keyword"`
	SortField string `json:"sort_field"`
	SortOrder string `json:"sort_order"`
}

// ExportAll generates a catalog covering every product.
// Route: POST /api/v1/exports
func (h *ExportHandler) ExportAll(c *gin.Context) {
	result, err := h.exports.ExportAll(c.Request.Context())
	h.respond(c, result, err)
}

// ExportByCategory generates a catalog for one category.
// Route: POST /api/v1/exports/category/:id
func (h *ExportHandler) ExportByCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	result, err := h.exports.ExportByCategory(c.Request.Context(), id)
	h.respond(c, result, err)
}

// ExportBySearch generates a catalog for a keyword-filtered, sorted
// product selection.
// Route: POST /api/v1/exports/search
func (h *ExportHandler) ExportBySearch(c *gin.Context) {
	var req searchExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SortField == "" {
		req.SortField = "created_at"
	}
	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	result, err := h.exports.ExportBySearch(c.Request.Context(), req.Keyword, req.SortField, req.SortOrder)
	h.respond(c, result, err)
}

// respond maps service outcomes to HTTP. Caller-input errors become 4xx;
// everything else is an opaque 500.
func (h *ExportHandler) respond(c *gin.Context, result *model.ExportResult, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"file_name":    result.DisplayName,
			"storage_path": result.StoragePath,
			"generated_at": result.GeneratedAtISO(),
		})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
	case errors.Is(err, service.ErrEmptyKeyword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "search keyword is required"})
	case errors.Is(err, service.ErrInvalidSort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort field"})
	default:
		h.logger.Error("catalog export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

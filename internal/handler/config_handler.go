package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

// ConfigHandler manages the export configuration and company profile.
type ConfigHandler struct {
	configs storage.ExportConfigRepository
	company storage.CompanyProfileRepository
	logger  *zap.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configs storage.ExportConfigRepository, company storage.CompanyProfileRepository, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		company: company,
		logger:  logger,
	}
}

// GetExportConfig returns the active export configuration.
// Route: GET /api/v1/export-config
func (h *ConfigHandler) GetExportConfig(c *gin.Context) {
	cfg, err := h.configs.GetActive(c.Request.Context())
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active export config"})
		return
	}
	if err != nil {
		h.logger.Error("loading export config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type exportConfigRequest struct {
	CompanyName      string  `json:"company_name"`
	CompanyTitleName string  `json:"company_title_name"`
	BackgroundImage  *string `json:"background_image"`
	ColumnsPerRow    int     `json:"columns_per_row"`
}

// PutExportConfig replaces the active export configuration. Columns
// outside the supported range are rejected rather than clamped so the
// caller learns about the mistake.
// Route: PUT /api/v1/export-config
func (h *ConfigHandler) PutExportConfig(c *gin.Context) {
	var req exportConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ColumnsPerRow != 0 && (req.ColumnsPerRow < model.MinColumns || req.ColumnsPerRow > model.MaxColumns) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns_per_row must be 2 or 3"})
		return
	}

	cfg := &model.ExportConfig{
		CompanyName:      req.CompanyName,
		CompanyTitleName: req.CompanyTitleName,
		BackgroundImage:  req.BackgroundImage,
		ColumnsPerRow:    req.ColumnsPerRow,
		Active:           true,
	}
	cfg.Normalize()

	if err := h.configs.Save(c.Request.Context(), cfg); err != nil {
		h.logger.Error("saving export config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GetCompanyProfile returns the company profile.
// Route: GET /api/v1/company-profile
func (h *ConfigHandler) GetCompanyProfile(c *gin.Context) {
	profile, err := h.company.Get(c.Request.Context())
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "company profile not set"})
		return
	}
	if err != nil {
		h.logger.Error("loading company profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type companyProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Intro string `json:"intro"`
}

// PutCompanyProfile upserts the single company profile record.
// Route: PUT /api/v1/company-profile
func (h *ConfigHandler) PutCompanyProfile(c *gin.Context) {
	var req companyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	profile := &model.CompanyProfile{Name: req.Name, Intro: req.Intro}
	if err := h.company.Save(c.Request.Context(), profile); err != nil {
		h.logger.Error("saving company profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

// ContentHandler manages storefront banners and announcements.
type ContentHandler struct {
	banners       storage.BannerRepository
	announcements storage.AnnouncementRepository
	logger        *zap.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(banners storage.BannerRepository, announcements storage.AnnouncementRepository, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		banners:       banners,
		announcements: announcements,
		logger:        logger,
	}
}

// ListBanners returns banners, enabled ones only unless all=true.
// Route: GET /api/v1/banners?all=true
func (h *ContentHandler) ListBanners(c *gin.Context) {
	onlyEnabled := c.Query("all") != "true"
	banners, err := h.banners.List(c.Request.Context(), onlyEnabled)
	if err != nil {
		h.logger.Error("listing banners", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

type bannerRequest struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url" binding:"required"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
	Enabled   *bool  `json:"enabled"`
}

// CreateBanner adds a banner. New banners default to enabled.
// Route: POST /api/v1/banners
func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return
	}

	banner := &model.Banner{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		SortOrder: req.SortOrder,
		Enabled:   req.Enabled == nil || *req.Enabled,
	}
	if err := h.banners.Create(c.Request.Context(), banner); err != nil {
		h.logger.Error("creating banner", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

// DeleteBanner removes a banner by id.
// Route: DELETE /api/v1/banners/:id
func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	h.deleteByID(c, "banner", h.banners.Delete)
}

// ListAnnouncements returns announcements, enabled ones only unless all=true.
// Route: GET /api/v1/announcements?all=true
func (h *ContentHandler) ListAnnouncements(c *gin.Context) {
	onlyEnabled := c.Query("all") != "true"
	announcements, err := h.announcements.List(c.Request.Context(), onlyEnabled)
	if err != nil {
		h.logger.Error("listing announcements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

type announcementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Enabled *bool  `json:"enabled"`
}

// CreateAnnouncement adds an announcement. Defaults to enabled.
// Route: POST /api/v1/announcements
func (h *ContentHandler) CreateAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	announcement := &model.Announcement{
		Title:   req.Title,
		Content: req.Content,
		Enabled: req.Enabled == nil || *req.Enabled,
	}
	if err := h.announcements.Create(c.Request.Context(), announcement); err != nil {
		h.logger.Error("creating announcement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

// DeleteAnnouncement removes an announcement by id.
// Route: DELETE /api/v1/announcements/:id
func (h *ContentHandler) DeleteAnnouncement(c *gin.Context) {
	h.deleteByID(c, "announcement", h.announcements.Delete)
}

func (h *ContentHandler) deleteByID(c *gin.Context, kind string, del func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + kind + " id"})
		return
	}

	err = del(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
		return
	}
	if err != nil {
		h.logger.Error("deleting "+kind, zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"clubedoebook/internal/api/dto"
	"clubedoebook/internal/api/middleware"
	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CreatorHandler struct {
	creators service.CreatorService
}

func NewCreatorHandler(creators service.CreatorService) *CreatorHandler {
	return &CreatorHandler{creators: creators}
}

func (h *CreatorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/badge", h.GetBadgeProgress)
	rg.GET("/profile", h.GetProfile)
	rg.PATCH("/profile", h.UpdateProfile)
}

// GetBadgeProgress returns the caller's badge standing, commission rate and
// distance to the next rung.
func (h *CreatorHandler) GetBadgeProgress(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.creators.GetBadgeProgress(ctx, caps.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load badge progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *CreatorHandler) GetProfile(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.creators.GetProfile(ctx, caps.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *CreatorHandler) UpdateProfile(c *gin.Context) {
	caps, ok := middleware.GetCapabilities(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateCreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.creators.UpdateProfile(ctx, caps.UserID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

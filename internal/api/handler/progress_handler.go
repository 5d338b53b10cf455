package handler

import (
	"context"
	"net/http"
	"time"

	"clubedoebook/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	gamification service.GamificationService
}

func NewProgressHandler(gamification service.GamificationService) *ProgressHandler {
	return &ProgressHandler{gamification: gamification}
}

func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Get)
	rg.GET("/certificates", h.Certificates)
}

// Get returns the caller's tier, points and achievement standing, derived
// fresh from the counters on every read.
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.gamification.GetProgress(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) Certificates(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	certificates, err := h.gamification.GetCertificates(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load certificates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": certificates, "total": len(certificates)})
}

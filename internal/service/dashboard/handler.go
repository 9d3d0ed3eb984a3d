package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GetStats handles GET /dashboard/stats
func (h *Handler) GetStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.service.GetStats(c.Request.Context(), userID.(string)))
}

// GetRecentActivity handles GET /dashboard/activity
func (h *Handler) GetRecentActivity(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	activity := h.service.GetRecentActivity(c.Request.Context(), userID.(string))
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

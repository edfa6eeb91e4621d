package setting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/middleware"
	"github.com/newsai/admin-api/internal/service/setting"
	"github.com/newsai/admin-api/internal/validation"
)

type Handler struct {
	service setting.Servicer
}

func NewHandler(service setting.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings")
	{
		settings.GET("", h.ListSettings)
		settings.PUT("", h.UpdateSettings)
	}
}

func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.service.ListSettings(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"settings": settings}})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req struct {
		Settings map[string]string `json:"settings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	updatedBy := c.GetString(middleware.ContextUserEmail)
	if err := h.service.UpdateSettings(c.Request.Context(), req.Settings, updatedBy); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}

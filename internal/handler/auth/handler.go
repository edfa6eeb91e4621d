package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/middleware"
	"github.com/newsai/admin-api/internal/model"
	authsvc "github.com/newsai/admin-api/internal/service/auth"
	"github.com/newsai/admin-api/internal/service/user"
	"github.com/newsai/admin-api/internal/validation"
	"github.com/newsai/admin-api/pkg/auth"
)

type Handler struct {
	service authsvc.Servicer
	users   user.Servicer
}

func NewHandler(service authsvc.Servicer, users user.Servicer) *Handler {
	return &Handler{service: service, users: users}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints. Admin and
// reader logins are separate endpoints issuing audience-scoped tokens.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login(auth.AudienceReader))
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/admin/auth/login", h.Login(auth.AudienceAdmin))
}

// RegisterProfileRoutes mounts the endpoints behind reader authentication.
func (h *Handler) RegisterProfileRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.POST("/profile/password", h.ChangePassword)
	r.GET("/subscriptions", h.ListSubscriptions)
	r.POST("/subscriptions/:categoryId", h.Subscribe)
	r.DELETE("/subscriptions/:categoryId", h.Unsubscribe)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	u, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	u.PasswordHash = ""

	c.JSON(http.StatusCreated, gin.H{"data": u})
}

func (h *Handler) Login(area auth.Audience) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
			return
		}

		resp, err := h.service.Login(c.Request.Context(), &req, area)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pair})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	u, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	categories, err := h.users.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"subscriptions": categories}})
}

func (h *Handler) Subscribe(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	if err := h.users.Subscribe(c.Request.Context(), userID, categoryID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "subscribed"})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid identity"))
		return
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	if err := h.users.Unsubscribe(c.Request.Context(), userID, categoryID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(middleware.ContextUserID))
}

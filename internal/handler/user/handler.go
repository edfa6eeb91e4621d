package user

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/service/export"
	"github.com/newsai/admin-api/internal/service/user"
	"github.com/newsai/admin-api/internal/validation"
)

type Handler struct {
	service user.Servicer
}

func NewHandler(service user.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/export", h.ExportUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.PATCH("/:id/block", h.SetBlocked(true))
		users.PATCH("/:id/unblock", h.SetBlocked(false))
		users.DELETE("/:id", h.Delete)
		users.POST("/bulk/block", h.BulkSetBlocked(true))
		users.POST("/bulk/unblock", h.BulkSetBlocked(false))
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	filter, err := bindUserFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	for _, u := range users {
		u.PasswordHash = ""
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"users":       users,
		"total":       total,
		"total_pages": model.TotalPagesFor(total, filter.PageSize),
		"page":        filter.Page,
		"limit":       filter.PageSize,
	}})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	u.PasswordHash = ""

	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	u := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
	}

	if err := h.service.CreateUser(c.Request.Context(), u); err != nil {
		handler.RespondError(c, err)
		return
	}
	u.PasswordHash = ""

	c.JSON(http.StatusCreated, gin.H{"data": u})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = model.UserRole(*req.Role)
	}
	if req.NewsletterOptIn != nil {
		u.NewsletterOptIn = *req.NewsletterOptIn
	}

	if err := h.service.UpdateUser(c.Request.Context(), u); err != nil {
		handler.RespondError(c, err)
		return
	}
	u.PasswordHash = ""

	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (h *Handler) SetBlocked(blocked bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
			return
		}

		u, err := h.service.SetBlocked(c.Request.Context(), id, blocked)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		u.PasswordHash = ""

		c.JSON(http.StatusOK, gin.H{"data": u})
	}
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *Handler) BulkSetBlocked(blocked bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
			return
		}

		n, err := h.service.BulkSetBlocked(c.Request.Context(), req.IDs, blocked)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
	}
}

func (h *Handler) ExportUsers(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filter := &model.UserFilter{}
	filter.Page = 1
	filter.PageSize = 1000

	users, _, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	data, err := export.Users(users, format)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=users.%s", format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func bindUserFilter(c *gin.Context) (*model.UserFilter, error) {
	var filter model.UserFilter
	if err := c.ShouldBindQuery(&filter.ListFilter); err != nil {
		return nil, err
	}

	if raw := c.Query("role"); raw != "" && raw != "all" {
		filter.Role = raw
	}
	if raw := c.Query("blocked"); raw != "" && raw != "all" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked filter")
		}
		filter.Blocked = &v
	}
	return &filter, nil
}

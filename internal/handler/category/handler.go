package category

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/service/category"
	"github.com/newsai/admin-api/internal/service/export"
	"github.com/newsai/admin-api/internal/validation"
)

type Handler struct {
	service category.Servicer
}

func NewHandler(service category.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/export", h.ExportCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.PATCH("/:id/active", h.SetActive)
		categories.DELETE("/:id", h.Delete)
		categories.POST("/bulk/activate", h.BulkSetActive(true))
		categories.POST("/bulk/deactivate", h.BulkSetActive(false))
		categories.POST("/bulk/delete", h.BulkDelete)
	}
}

func (h *Handler) ListCategories(c *gin.Context) {
	var filter model.CategoryFilter
	if err := c.ShouldBindQuery(&filter.ListFilter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}
	if raw := c.Query("active"); raw != "" && raw != "all" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid active filter"))
			return
		}
		filter.Active = &v
	}

	categories, total, err := h.service.ListCategories(c.Request.Context(), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"categories":  categories,
		"total":       total,
		"total_pages": model.TotalPagesFor(total, filter.PageSize),
		"page":        filter.Page,
		"limit":       filter.PageSize,
	}})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	cat, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cat})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	cat := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := h.service.CreateCategory(c.Request.Context(), cat); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": cat})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	cat, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if req.Active != nil {
		cat.Active = *req.Active
	}

	if err := h.service.UpdateCategory(c.Request.Context(), cat); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cat})
}

func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	cat, err := h.service.SetActive(c.Request.Context(), id, req.Active)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cat})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (h *Handler) BulkSetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
			return
		}

		n, err := h.service.BulkSetActive(c.Request.Context(), req.IDs, active)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
	}
}

func (h *Handler) BulkDelete(c *gin.Context) {
	var req model.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	n, err := h.service.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
}

func (h *Handler) ExportCategories(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filter := &model.CategoryFilter{}
	filter.Page = 1
	filter.PageSize = 1000

	categories, _, err := h.service.ListCategories(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	data, err := export.Categories(categories, format)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=categories.%s", format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

package article

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/middleware"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/service/article"
	"github.com/newsai/admin-api/internal/service/export"
	"github.com/newsai/admin-api/internal/validation"
)

// HardDeleteConfirmation is the phrase the operator must type before a
// permanent delete is accepted.
const HardDeleteConfirmation = "DELETE"

type Handler struct {
	service article.Servicer
}

func NewHandler(service article.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	articles := r.Group("/articles")
	{
		articles.GET("", h.ListArticles)
		articles.GET("/export", h.ExportArticles)
		articles.GET("/:id", h.GetArticle)
		articles.POST("", h.CreateArticle)
		articles.PUT("/:id", h.UpdateArticle)
		articles.PATCH("/:id/status", h.ChangeStatus)
		articles.PATCH("/:id/featured", h.ToggleFlag("featured"))
		articles.PATCH("/:id/breaking", h.ToggleFlag("breaking"))
		articles.DELETE("/:id", h.SoftDelete)
		articles.DELETE("/:id/permanent", h.HardDelete)
		articles.POST("/:id/restore", h.Restore)
		articles.POST("/:id/duplicate", h.Duplicate)
		articles.POST("/bulk/status", h.BulkChangeStatus)
		articles.POST("/bulk/delete", h.BulkDelete)
		articles.POST("/bulk/restore", h.BulkRestore)
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	filter, err := bindArticleFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	articles, total, err := h.service.ListArticles(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"articles":    articles,
		"total":       total,
		"total_pages": model.TotalPagesFor(total, filter.PageSize),
		"page":        filter.Page,
		"limit":       filter.PageSize,
	}})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	a, err := h.service.GetArticle(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	authorID, err := operatorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid operator identity"))
		return
	}

	a := &model.Article{
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		AuthorID:   authorID,
		Featured:   req.Featured,
		Breaking:   req.Breaking,
	}

	if err := h.service.CreateArticle(c.Request.Context(), a); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": a})
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	a, err := h.service.GetArticle(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Summary != nil {
		a.Summary = *req.Summary
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.CategoryID != nil {
		a.CategoryID = req.CategoryID
	}
	if req.Featured != nil {
		a.Featured = *req.Featured
	}
	if req.Breaking != nil {
		a.Breaking = *req.Breaking
	}

	if err := h.service.UpdateArticle(c.Request.Context(), a); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	var req model.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	a, err := h.service.ChangeStatus(c.Request.Context(), id, model.ArticleStatus(req.Status))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (h *Handler) ToggleFlag(flag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
			return
		}

		a, err := h.service.ToggleFlag(c.Request.Context(), id, flag)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": a})
	}
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	if err := h.service.SoftDeleteArticle(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article moved to trash"})
}

// HardDelete permanently removes a trashed article. The typed confirmation
// phrase is validated server-side as well, so a buggy client cannot skip it.
func (h *Handler) HardDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	var req struct {
		Confirm string `json:"confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != HardDeleteConfirmation {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(
			fmt.Sprintf("permanent deletion requires typing %q", HardDeleteConfirmation)))
		return
	}

	if err := h.service.HardDeleteArticle(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article permanently deleted"})
}

func (h *Handler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	a, err := h.service.RestoreArticle(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid article ID"))
		return
	}

	authorID, err := operatorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid operator identity"))
		return
	}

	dup, err := h.service.DuplicateArticle(c.Request.Context(), id, authorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dup})
}

func (h *Handler) BulkChangeStatus(c *gin.Context) {
	var req model.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	n, err := h.service.BulkChangeStatus(c.Request.Context(), req.IDs, model.ArticleStatus(req.Status))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
}

func (h *Handler) BulkDelete(c *gin.Context) {
	var req model.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	n, err := h.service.BulkSoftDelete(c.Request.Context(), req.IDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
}

func (h *Handler) BulkRestore(c *gin.Context) {
	var req model.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	n, err := h.service.BulkRestore(c.Request.Context(), req.IDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
}

func (h *Handler) ExportArticles(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filter, err := bindArticleFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}
	filter.Page = 1
	filter.PageSize = 1000

	articles, _, err := h.service.ListArticles(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	data, err := export.Articles(articles, format)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=articles.%s", format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func bindArticleFilter(c *gin.Context) (*model.ArticleFilter, error) {
	var filter model.ArticleFilter
	if err := c.ShouldBindQuery(&filter.ListFilter); err != nil {
		return nil, err
	}

	if raw := c.Query("category"); raw != "" && raw != "all" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid category filter")
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid author filter")
		}
		filter.AuthorID = &id
	}
	if raw := c.Query("featured"); raw != "" && raw != "all" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid featured filter")
		}
		filter.Featured = &v
	}
	return &filter, nil
}

// operatorID extracts the authenticated operator's id from the context
func operatorID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(middleware.ContextUserID))
}

package advertisement

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/handler"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/service/advertisement"
	"github.com/newsai/admin-api/internal/service/export"
	"github.com/newsai/admin-api/internal/validation"
)

// Confirmation phrase for permanent advertisement deletion.
const HardDeleteConfirmation = "DELETE"

type Handler struct {
	service advertisement.Servicer
}

func NewHandler(service advertisement.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ads := r.Group("/advertisements")
	{
		ads.GET("", h.ListAds)
		ads.GET("/export", h.ExportAds)
		ads.GET("/:id", h.GetAd)
		ads.POST("", h.CreateAd)
		ads.PUT("/:id", h.UpdateAd)
		ads.PATCH("/:id/status", h.ChangeStatus)
		ads.DELETE("/:id", h.SoftDelete)
		ads.DELETE("/:id/permanent", h.HardDelete)
		ads.POST("/:id/restore", h.Restore)
		ads.POST("/bulk/approve", h.BulkStatus(model.AdStatusApproved))
		ads.POST("/bulk/reject", h.BulkStatus(model.AdStatusRejected))
		ads.POST("/bulk/pause", h.BulkStatus(model.AdStatusPaused))
		ads.POST("/bulk/delete", h.BulkDelete)
	}
}

func (h *Handler) ListAds(c *gin.Context) {
	var filter model.AdFilter
	if err := c.ShouldBindQuery(&filter.ListFilter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}
	filter.Placement = c.Query("placement")
	filter.Advertiser = c.Query("advertiser")

	ads, total, err := h.service.ListAds(c.Request.Context(), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"advertisements": ads,
		"total":          total,
		"total_pages":    model.TotalPagesFor(total, filter.PageSize),
		"page":           filter.Page,
		"limit":          filter.PageSize,
	}})
}

func (h *Handler) GetAd(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
		return
	}

	ad, err := h.service.GetAd(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ad})
}

func (h *Handler) CreateAd(c *gin.Context) {
	var req model.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	ad := &model.Advertisement{
		Name:       req.Name,
		Advertiser: req.Advertiser,
		Placement:  req.Placement,
		TargetURL:  req.TargetURL,
		ImageURL:   req.ImageURL,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
	}

	if err := h.service.CreateAd(c.Request.Context(), ad); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ad})
}

func (h *Handler) UpdateAd(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
		return
	}

	var req model.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	ad, err := h.service.GetAd(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if req.Name != nil {
		ad.Name = *req.Name
	}
	if req.Advertiser != nil {
		ad.Advertiser = *req.Advertiser
	}
	if req.Placement != nil {
		ad.Placement = *req.Placement
	}
	if req.TargetURL != nil {
		ad.TargetURL = *req.TargetURL
	}
	if req.ImageURL != nil {
		ad.ImageURL = *req.ImageURL
	}
	if req.StartsAt != nil {
		ad.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		ad.EndsAt = req.EndsAt
	}

	if err := h.service.UpdateAd(c.Request.Context(), ad); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ad})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
		return
	}

	var req model.ChangeAdStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
		return
	}

	ad, err := h.service.ChangeStatus(c.Request.Context(), id, model.AdStatus(req.Status))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ad})
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
		return
	}

	if err := h.service.SoftDeleteAd(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "advertisement moved to trash"})
}

func (h *Handler) HardDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
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

	if err := h.service.HardDeleteAd(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "advertisement permanently deleted"})
}

func (h *Handler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid advertisement ID"))
		return
	}

	ad, err := h.service.RestoreAd(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ad})
}

func (h *Handler) BulkStatus(status model.AdStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(validation.Message(err)))
			return
		}

		n, err := h.service.BulkChangeStatus(c.Request.Context(), req.IDs, status)
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

	n, err := h.service.BulkSoftDelete(c.Request.Context(), req.IDs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": n}})
}

func (h *Handler) ExportAds(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filter := &model.AdFilter{}
	filter.Page = 1
	filter.PageSize = 1000

	ads, _, err := h.service.ListAds(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	data, err := export.Advertisements(ads, format)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=advertisements.%s", format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

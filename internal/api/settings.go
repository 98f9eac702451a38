package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type SettingsHandler struct {
	settings service.ISettingsService
}

func NewSettingsHandler(settings service.ISettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.List)
}

// RegisterAdminRoutes mounts the console endpoints; router must already be gated.
func (h *SettingsHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.List)
	router.PUT("/settings", h.Update)
}

func (h *SettingsHandler) List(c *gin.Context) {
	values, err := h.settings.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": values})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req types.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	values, err := h.settings.Update(c.Request.Context(), req.Values)
	if err != nil {
		respondError(c, err, "failed to update settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": values})
}

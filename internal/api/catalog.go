package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type CatalogHandler struct {
	catalog service.ICatalogService
}

func NewCatalogHandler(catalog service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/menu", h.PublicMenu)
}

// RegisterAdminRoutes mounts the console endpoints; router must already be gated.
func (h *CatalogHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	items := router.Group("/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/image", h.UploadItemImage)
	}
}

func (h *CatalogHandler) PublicMenu(c *gin.Context) {
	menu, err := h.catalog.PublicMenu(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": menu})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req types.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req types.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory also deletes every item filed under the category.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list menu items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req types.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create menu item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req types.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete menu item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) UploadItemImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	upload, err := readUpload(c)
	if err != nil {
		respondError(c, err, "failed to read upload")
		return
	}

	item, err := h.catalog.AttachItemImage(c.Request.Context(), id, upload)
	if err != nil {
		respondError(c, err, "failed to attach image")
		return
	}
	c.JSON(http.StatusOK, item)
}

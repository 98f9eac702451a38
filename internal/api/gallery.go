package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type GalleryHandler struct {
	gallery service.IGalleryService
}

func NewGalleryHandler(gallery service.IGalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

func (h *GalleryHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/gallery", h.ListPublic)
}

// RegisterAdminRoutes mounts the console endpoints; router must already be gated.
func (h *GalleryHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	gallery := router.Group("/gallery")
	{
		gallery.GET("", h.List)
		gallery.POST("", h.Create)
		gallery.POST("/upload", h.Upload)
		gallery.PUT("/:id", h.Update)
		gallery.DELETE("/:id", h.Delete)
	}
}

func (h *GalleryHandler) ListPublic(c *gin.Context) {
	images, err := h.gallery.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.gallery.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list gallery images")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *GalleryHandler) Create(c *gin.Context) {
	var req types.GalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	image, err := h.gallery.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create gallery image")
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *GalleryHandler) Upload(c *gin.Context) {
	upload, err := readUpload(c)
	if err != nil {
		respondError(c, err, "failed to read upload")
		return
	}

	image, err := h.gallery.CreateFromUpload(c.Request.Context(), upload, c.PostForm("alt_text"))
	if err != nil {
		respondError(c, err, "failed to create gallery image")
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req types.UpdateGalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	image, err := h.gallery.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update gallery image")
		return
	}
	c.JSON(http.StatusOK, image)
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.gallery.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete gallery image")
		return
	}
	c.Status(http.StatusNoContent)
}

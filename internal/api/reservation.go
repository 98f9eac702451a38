package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type ReservationHandler struct {
	reservations service.IReservationService
}

func NewReservationHandler(reservations service.IReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// RegisterPublicRoutes mounts the reservation form endpoints. limits run
// before the submission handler only.
func (h *ReservationHandler) RegisterPublicRoutes(router *gin.RouterGroup, limits ...gin.HandlerFunc) {
	reservations := router.Group("/reservations")
	{
		reservations.GET("/options", h.Options)
		reservations.POST("", append(limits, h.Create)...)
	}
}

// RegisterAdminRoutes mounts the console endpoints; router must already be gated.
func (h *ReservationHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	reservations := router.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.GET("/:id", h.Get)
		reservations.PATCH("/:id/status", h.UpdateStatus)
		reservations.DELETE("/:id", h.Delete)
	}
}

func (h *ReservationHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.reservations.Options())
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req types.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	reservation, err := h.reservations.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, service.MsgSubmissionFailed)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     service.MsgSubmissionSuccess,
		"reservation": reservation,
	})
}

func (h *ReservationHandler) List(c *gin.Context) {
	reservations, err := h.reservations.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "failed to list reservations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation":         reservation,
		"allowed_transitions": reservation.Status.AllowedTransitions(),
	})
}

func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req types.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	reservation, err := h.reservations.UpdateStatus(c.Request.Context(), id, models.ReservationStatus(req.Status))
	if err != nil {
		respondError(c, err, "failed to update reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation":         reservation,
		"allowed_transitions": reservation.Status.AllowedTransitions(),
	})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete reservation")
		return
	}
	c.Status(http.StatusNoContent)
}

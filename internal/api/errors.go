package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

// ErrConfirmationRequired is returned for irreversible deletes sent without confirm=true.
var ErrConfirmationRequired = errors.New("deletion must be confirmed with confirm=true")

const (
	msgInvalidBody     = "invalid request body"
	msgInvalidID       = "invalid id"
	msgNotFound        = "not found"
	msgEmailTaken      = "Este email ya está registrado"
	msgBadCredentials  = "Credenciales incorrectas"
	msgBadResetToken   = "El enlace ha caducado o no es válido"
	msgUploadFailed    = "Error al subir la imagen"
	msgInternalFailure = "internal server error"
)

// respondError maps service errors to status codes. Anything unexpected is
// logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, ErrConfirmationRequired),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrUnknownSetting):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadResetToken})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": msgEmailTaken})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgBadCredentials})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": "/auth"})
	case errors.Is(err, service.ErrUploadFailed):
		logger.ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error("image upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": msgUploadFailed})
	default:
		logger.ErrorLogger.WithError(err).
			WithField("method", c.Request.Method).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidID})
		return uuid.Nil, false
	}
	return id, true
}

// requireConfirmation guards irreversible deletes.
func requireConfirmation(c *gin.Context) bool {
	if c.Query("confirm") != "true" {
		respondError(c, ErrConfirmationRequired, msgInternalFailure)
		return false
	}
	return true
}

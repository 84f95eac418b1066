package handlers

import (
	"errors"
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError writes the {"error": ...} body with the status matching err.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrInvalidSecret):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking draft not found or expired"})
	case errors.Is(err, repository.ErrVehicleUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Vehicle is no longer available"})
	case errors.Is(err, services.ErrTransitionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Another update for this booking is in progress"})
	case errors.Is(err, services.ErrVehicleInUse),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, models.ErrDraftStep),
		errors.Is(err, models.ErrDraftSubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

package handlers

import (
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DeviceIDHeader identifies the browser whose tracking history is kept.
const DeviceIDHeader = "X-Device-ID"

// CreateBooking places a booking from a single request carrying all wizard steps.
func CreateBooking(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.BookingRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		booking, err := svc.CreateBooking(c.Request.Context(), input)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, booking)
	}
}

// TrackBooking looks a booking up by id. An unknown id answers 200 with found=false.
func TrackBooking(svc *services.TrackingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Lookup(c.Request.Context(), c.GetHeader(DeviceIDHeader), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func CancelBooking(svc *services.TrackingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := svc.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

func RecentLookups(svc *services.TrackingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		recent, err := svc.Recent(c.Request.Context(), c.GetHeader(DeviceIDHeader))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recent": recent})
	}
}

func ClearRecentLookups(svc *services.TrackingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearRecent(c.Request.Context(), c.GetHeader(DeviceIDHeader)); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recent": []string{}})
	}
}

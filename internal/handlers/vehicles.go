package handlers

import (
	"net/http"
	"strconv"

	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/arihantcabs/booking-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListVehicles returns the fleet members that can take the requested party size.
func ListVehicles(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengers := 1
		if raw := c.Query("passengers"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "passengers must be a positive number"})
				return
			}
			passengers = n
		}

		vehicles, err := svc.AvailableVehicles(c.Request.Context(), passengers)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicles)
	}
}

// GetInsights previews the trip advice without touching a draft.
func GetInsights() gin.HandlerFunc {
	return func(c *gin.Context) {
		passengers, err := strconv.Atoi(c.DefaultQuery("passengers", "1"))
		if err != nil || passengers < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "passengers must be a positive number"})
			return
		}
		text := utils.GenerateInsights(c.Query("pickup"), c.Query("drop"), passengers)
		c.JSON(http.StatusOK, gin.H{
			"insights": utils.SplitInsights(text),
			"text":     text,
		})
	}
}

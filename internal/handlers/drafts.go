package handlers

import (
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func StartDraft(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := svc.StartDraft(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, draft)
	}
}

func GetDraft(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := svc.GetDraft(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

func SubmitTrip(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.TripDetails
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		step, err := svc.SubmitTrip(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, step)
	}
}

func SelectVehicle(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleID string `json:"vehicleId"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		draft, err := svc.SelectVehicle(c.Request.Context(), c.Param("id"), input.VehicleID)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

func DraftBack(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := svc.Back(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

func SubmitDraft(svc *services.BookingService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ContactDetails
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		booking, err := svc.Submit(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, booking)
	}
}

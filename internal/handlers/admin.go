package handlers

import (
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func AdminLogin(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Secret string `json:"secret" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		result, err := svc.Login(c.Request.Context(), input.Secret)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func ChangeAdminSecret(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			CurrentSecret string `json:"currentSecret" binding:"required"`
			NewSecret     string `json:"newSecret" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		if err := svc.ChangeSecret(c.Request.Context(), input.CurrentSecret, input.NewSecret); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Secret updated"})
	}
}

func AdminDashboard(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

func AdminListBookings(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.ListBookings(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// UpdateBookingStatus applies an operator lifecycle action.
func UpdateBookingStatus(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		status, ok := models.ParseBookingStatus(input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		booking, err := svc.TransitionBooking(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

func AdminListVehicles(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicles, err := svc.ListVehicles(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicles)
	}
}

func UpsertVehicle(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Vehicle
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		input.ID = c.Param("id")

		vehicle, err := svc.UpsertVehicle(c.Request.Context(), input)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func DeleteVehicle(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
	}
}

func SetVehicleStatus(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status models.VehicleStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		vehicle, err := svc.SetVehicleStatus(c.Request.Context(), c.Param("id"), input.Status)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func ToggleVehicleStatus(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, err := svc.ToggleVehicleStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func UploadVehicleImage(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
			return
		}

		vehicle, err := svc.UploadVehicleImage(c.Request.Context(), c.Param("id"), file)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func AdminListReviews(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListReviews(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

func SetReviewVisibility(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			IsVisible *bool `json:"isVisible" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		if err := svc.SetReviewVisibility(c.Request.Context(), c.Param("id"), *input.IsVisible); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "isVisible": *input.IsVisible})
	}
}

func DeleteReview(svc *services.AdminService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}

package handlers

import (
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/config"
	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/gin-gonic/gin"
)

func GetContactInfo(cfg *config.ContactConfig) gin.HandlerFunc {
	info := models.ContactInfo{
		Phone:     cfg.Phone,
		Phone2:    cfg.Phone2,
		WhatsApp:  cfg.WhatsApp,
		Instagram: cfg.Instagram,
		UPI:       cfg.UPI,
		Location:  cfg.Location,
		Owner:     cfg.Owner,
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	}
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

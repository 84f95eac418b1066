package handlers

import (
	"net/http"

	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func ListReviews(svc *services.ReviewService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListVisible(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

func SubmitReview(svc *services.ReviewService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.ReviewRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}

		review, err := svc.Submit(c.Request.Context(), input)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Thank you! Your review will appear once approved.",
			"review":  review,
		})
	}
}

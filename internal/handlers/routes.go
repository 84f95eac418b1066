package handlers

import (
	"github.com/arihantcabs/booking-backend/internal/config"
	"github.com/arihantcabs/booking-backend/internal/middleware"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Bookings  *services.BookingService
	Tracking  *services.TrackingService
	Reviews   *services.ReviewService
	Admin     *services.AdminService
	Hub       *services.Hub
	Contact   *config.ContactConfig
	JWTSecret string
	Log       logrus.FieldLogger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	log := d.Log

	r.GET("/health", Health())

	api := r.Group("/api")
	{
		api.GET("/vehicles", ListVehicles(d.Bookings, log))
		api.GET("/insights", GetInsights())
		api.GET("/contact", GetContactInfo(d.Contact))

		drafts := api.Group("/booking-drafts")
		{
			drafts.POST("", StartDraft(d.Bookings, log))
			drafts.GET("/:id", GetDraft(d.Bookings, log))
			drafts.PUT("/:id/trip", SubmitTrip(d.Bookings, log))
			drafts.PUT("/:id/vehicle", SelectVehicle(d.Bookings, log))
			drafts.POST("/:id/back", DraftBack(d.Bookings, log))
			drafts.POST("/:id/submit", SubmitDraft(d.Bookings, log))
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", CreateBooking(d.Bookings, log))
			bookings.GET("/:id", TrackBooking(d.Tracking, log))
			bookings.POST("/:id/cancel", CancelBooking(d.Tracking, log))
		}

		tracking := api.Group("/tracking")
		{
			tracking.GET("/recent", RecentLookups(d.Tracking, log))
			tracking.DELETE("/recent", ClearRecentLookups(d.Tracking, log))
		}

		api.GET("/reviews", ListReviews(d.Reviews, log))
		api.POST("/reviews", SubmitReview(d.Reviews, log))

		api.POST("/admin/login", AdminLogin(d.Admin, log))

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(d.JWTSecret))
		{
			admin.GET("/dashboard", AdminDashboard(d.Admin, log))
			admin.GET("/bookings", AdminListBookings(d.Admin, log))
			admin.PATCH("/bookings/:id/status", UpdateBookingStatus(d.Admin, log))

			admin.GET("/vehicles", AdminListVehicles(d.Admin, log))
			admin.PUT("/vehicles/:id", UpsertVehicle(d.Admin, log))
			admin.DELETE("/vehicles/:id", DeleteVehicle(d.Admin, log))
			admin.PATCH("/vehicles/:id/status", SetVehicleStatus(d.Admin, log))
			admin.POST("/vehicles/:id/toggle", ToggleVehicleStatus(d.Admin, log))
			admin.POST("/vehicles/:id/image", UploadVehicleImage(d.Admin, log))

			admin.GET("/reviews", AdminListReviews(d.Admin, log))
			admin.PATCH("/reviews/:id/visibility", SetReviewVisibility(d.Admin, log))
			admin.DELETE("/reviews/:id", DeleteReview(d.Admin, log))

			admin.PUT("/secret", ChangeAdminSecret(d.Admin, log))

			if d.Hub != nil {
				admin.GET("/ws", LiveFeed(d.Hub))
			}
		}
	}
}

package handlers

import (
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// LiveFeed upgrades an authenticated operator connection onto the event hub.
func LiveFeed(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request, c.GetString("request_id"))
	}
}

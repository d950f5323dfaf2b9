package routes

import (
	"github.com/Roadpeak/D3-client-sub000/handlers"
	"github.com/Roadpeak/D3-client-sub000/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for existing bookings.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware())
		bookings.GET("", hb.ListBookings)
		bookings.GET("/:id", hb.GetBooking)
		bookings.POST("/:id/cancel", hb.CancelBooking)
	}
}

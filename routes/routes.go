package routes

import (
	"net/http"

	"github.com/Roadpeak/D3-client-sub000/handlers"
	"github.com/Roadpeak/D3-client-sub000/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterWizardRoutes sets up the endpoints for the booking wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wizard := r.Group("/api/wizard")
	{
		wizard.Use(middleware.JWTAuthMiddleware())
		wizard.POST("", hb.StartWizard)
		wizard.GET("/:sessionID", hb.GetWizard)
		wizard.POST("/:sessionID/slots", hb.LoadWizardSlots)
		wizard.PUT("/:sessionID/draft", hb.UpdateWizardDraft)
		wizard.POST("/:sessionID/advance", hb.AdvanceWizard)
		wizard.POST("/:sessionID/back", hb.BackWizard)
		wizard.POST("/:sessionID/submit", hb.SubmitWizard)
		wizard.GET("/:sessionID/payment", hb.WizardPaymentState)
		wizard.DELETE("/:sessionID", hb.CancelWizard)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

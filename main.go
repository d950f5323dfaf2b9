package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roadpeak/D3-client-sub000/config"
	"github.com/Roadpeak/D3-client-sub000/cron"
	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/handlers"
	"github.com/Roadpeak/D3-client-sub000/middleware"
	"github.com/Roadpeak/D3-client-sub000/routes"
	"github.com/Roadpeak/D3-client-sub000/services/booking"
	"github.com/Roadpeak/D3-client-sub000/services/tasks"
	"github.com/Roadpeak/D3-client-sub000/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Upstream gateway. Requests forward the caller's own bearer token.
	backendTimeout := time.Duration(config.AppConfig.BackendTimeout) * time.Second
	upstream := gateway.NewClient(config.AppConfig.BackendAPIURL, gateway.ContextCredentials{}, backendTimeout, logger)

	// Reminder queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	cron.InitReminderWorker()

	// services.
	availability := &booking.AvailabilityEngine{Gateway: upstream, Logger: logger}
	branches := &booking.BranchResolver{Gateway: upstream, Logger: logger}
	payments := &booking.BackendPaymentService{Gateway: upstream, Logger: logger}
	sessionStore := booking.NewRedisSessionStore(utils.GetSessionCacheClient())

	wizardService := &booking.DefaultWizardService{
		Store:           sessionStore,
		Availability:    availability,
		Branches:        branches,
		Payments:        payments,
		Reminders:       &tasks.AsynqReminderScheduler{Client: asynqClient},
		Logger:          logger,
		PollInterval:    time.Duration(config.AppConfig.PaymentPollIntervalSec) * time.Second,
		PollMaxAttempts: config.AppConfig.PaymentPollMaxAttempts,
	}
	bookingService := &booking.DefaultBookingService{Gateway: upstream, Logger: logger}

	handlerBundle := &handlers.HandlerBundle{
		Wizard:   wizardService,
		Bookings: bookingService,
	}

	routes.RegisterHealthRoute(router)
	routes.RegisterWizardRoutes(router, handlerBundle)
	routes.RegisterBookingRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

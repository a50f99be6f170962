package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/config"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/handlers"
	"github.com/smarttransit/bus-booking-backend/internal/middleware"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/smarttransit/bus-booking-backend/pkg/jwt"
	"github.com/smarttransit/bus-booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit Bus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.PingContext(startupCtx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		logger.Info("Running schema migrations...")
		if err := database.RunMigrations(startupCtx, db); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	if err := validator.RegisterBindings(); err != nil {
		logger.Fatalf("Failed to register validators: %v", err)
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	searchRepository := database.NewSearchRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	paymentRepository := database.NewPaymentRepository(db)
	paymentAuditRepository := database.NewPaymentAuditRepository(db, logger)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authService := services.NewAuthService(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	searchService := services.NewSearchService(searchRepository, logger)
	availabilityService := services.NewAvailabilityService(db, bookingRepository)
	bookingService := services.NewBookingService(db, bookingRepository, paymentRepository, availabilityService, logger)
	ticketService := services.NewTicketService(bookingService)
	auditService := services.NewAuditService(paymentAuditRepository, logger, cfg.Security.EnableAuditLog)
	paymentService := services.NewPaymentService(
		db,
		bookingRepository,
		paymentRepository,
		auditService,
		cfg.Payment.GatewayBaseURL,
		logger,
	)

	rateLimiter, stopCleanup := newRateLimiter(startupCtx, cfg, db, logger)
	startupCancel()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	busHandler := handlers.NewBusHandler(searchService, availabilityService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, ticketService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	logger.Info("Services initialized")

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Add environment to context so handlers can decide on error detail
	router.Use(func(c *gin.Context) {
		c.Set(handlers.EnvironmentKey, cfg.Server.Environment)
		c.Next()
	})

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter, logger))
	}
	{
		authMiddleware := middleware.AuthMiddleware(jwtService, logger)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authMiddleware, authHandler.Logout)
			auth.GET("/profile", authMiddleware, authHandler.GetProfile)
			auth.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
		}

		// Public bus search
		buses := v1.Group("/buses")
		{
			buses.GET("/search", busHandler.SearchBuses)
			buses.GET("/:scheduleId/seats", busHandler.GetSeatAvailability)
		}

		bookings := v1.Group("/bookings")
		bookings.Use(authMiddleware)
		{
			bookings.POST("/create", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/:bookingId", bookingHandler.GetBooking)
			bookings.POST("/:bookingId/cancel", bookingHandler.CancelBooking)
			bookings.GET("/:bookingId/ticket", bookingHandler.DownloadTicket)
		}

		payments := v1.Group("/payments")
		{
			// Gateway webhook, authenticated by shared secret instead of a user token
			payments.POST("/confirm", middleware.WebhookSecret(cfg.Payment.WebhookSecret), paymentHandler.ConfirmPayment)

			payments.POST("/initiate", authMiddleware, paymentHandler.InitiatePayment)
			payments.GET("/:bookingId/status", authMiddleware, paymentHandler.GetPaymentStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopCleanup()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// newRateLimiter builds the configured rate limit backend. The returned stop
// function releases what the backend started.
func newRateLimiter(ctx context.Context, cfg *config.Config, db database.DB, logger *logrus.Logger) (services.RateLimiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		logger.Info("Rate limiting disabled")
		return nil, noop
	}

	limitConfig := services.RateLimitConfig{
		MaxRequests: cfg.RateLimit.Requests,
		Window:      time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}

	if cfg.RateLimit.Backend == "redis" {
		client, err := services.NewRedisClient(ctx, cfg.Redis.URL)
		if err == nil {
			logger.Info("Rate limiting backed by redis")
			return services.NewRedisRateLimiter(client, limitConfig), func() { client.Close() }
		}
		logger.WithError(err).Warn("Redis unavailable, falling back to postgres rate limiting")
	}

	limiter := services.NewRateLimitService(db, limitConfig)
	cronService := services.NewCronService(limiter, limitConfig.Window, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	logger.Info("Rate limiting backed by postgres")
	return limiter, cronService.Stop
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"request_id": middleware.GetRequestID(c),
		}

		// Authorization header presence only, never the token
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/seyniss/business-backend/internal/config"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/handlers"
	"github.com/seyniss/business-backend/internal/middleware"
	"github.com/seyniss/business-backend/internal/models"
	"github.com/seyniss/business-backend/internal/services"
	"github.com/seyniss/business-backend/pkg/jwt"
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

	logger.Info("Starting Seyniss Business Backend")
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

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Redis is used for login lockout counters only. Degrade gracefully if
	// it is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("Redis unreachable, login lockout disabled: %v", err)
		redisClient = nil
	}
	cancelPing()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	userRepo := database.NewUserRepository(db)
	businessRepo := database.NewBusinessRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	lodgingRepo := database.NewLodgingRepository(db)
	roomRepo := database.NewRoomRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	noticeRepo := database.NewNoticeRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// The booking repository needs raw transaction access for the
	// admission-controlled insert.
	bookingRepo := database.NewBookingRepository(db.DB)

	lockoutService := services.NewLockoutService(redisClient, cfg.Lockout, logger)
	authService := services.NewAuthService(
		userRepo, businessRepo, sessionRepo, lockoutService,
		jwtService, cfg.Security.BcryptCost, logger,
	)
	eventPublisher := services.NewAMQPEventPublisher(cfg.AMQP, logger)
	reservationService := services.NewReservationService(
		bookingRepo, roomRepo, lodgingRepo, userRepo, paymentRepo,
		eventPublisher,
		services.ReservationServiceConfig{
			AdmissionRetries: cfg.Booking.AdmissionRetries,
			AllowReopen:      cfg.Booking.AllowReopen,
		},
		logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessionRepo)
	bookingHandler := handlers.NewBookingHandler(reservationService, businessRepo)
	lodgingHandler := handlers.NewLodgingHandler(lodgingRepo, businessRepo)
	roomHandler := handlers.NewRoomHandler(roomRepo, lodgingRepo, businessRepo)
	noticeHandler := handlers.NewNoticeHandler(noticeRepo, roomRepo, lodgingRepo, businessRepo)
	statsHandler := handlers.NewStatsHandler(statsRepo, businessRepo)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				authProtected.GET("/sessions", authHandler.ListSessions)
			}
		}

		// Booking creation and availability (any authenticated user)
		booking := v1.Group("")
		booking.Use(middleware.AuthMiddleware(jwtService))
		{
			booking.POST("/bookings", bookingHandler.CreateBooking)
			booking.GET("/rooms/:id/availability", bookingHandler.CheckAvailability)
		}

		// Business operator routes
		business := v1.Group("")
		business.Use(middleware.AuthMiddleware(jwtService))
		business.Use(middleware.RequireRole(string(models.UserRoleBusiness)))
		{
			business.GET("/bookings", bookingHandler.ListBookings)
			business.GET("/bookings/:id", bookingHandler.GetBooking)
			business.PATCH("/bookings/:id/status", bookingHandler.UpdateBookingStatus)
			business.PATCH("/bookings/:id/payment", bookingHandler.UpdatePaymentStatus)

			business.POST("/lodgings", lodgingHandler.CreateLodging)
			business.GET("/lodgings", lodgingHandler.ListLodgings)
			business.GET("/lodgings/:id", lodgingHandler.GetLodging)
			business.PATCH("/lodgings/:id", lodgingHandler.UpdateLodging)
			business.DELETE("/lodgings/:id", lodgingHandler.DeleteLodging)
			business.GET("/lodgings/:id/rooms", roomHandler.ListRooms)

			business.POST("/rooms", roomHandler.CreateRoom)
			business.GET("/rooms/:id", roomHandler.GetRoom)
			business.PATCH("/rooms/:id", roomHandler.UpdateRoom)
			business.DELETE("/rooms/:id", roomHandler.DeleteRoom)
			business.GET("/rooms/:id/notices", noticeHandler.ListNotices)

			business.POST("/notices", noticeHandler.CreateNotice)
			business.DELETE("/notices/:id", noticeHandler.DeleteNotice)

			business.GET("/stats", statsHandler.GetStats)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
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
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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

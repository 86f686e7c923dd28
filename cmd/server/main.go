package main

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mlazaro/bahay/internal/api"
	"github.com/mlazaro/bahay/internal/auth"
	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/realtime"
	"github.com/mlazaro/bahay/internal/store"
	internalWs "github.com/mlazaro/bahay/internal/websocket"
)

func main() {
	// Set up logging to file and console
	logFile, err := os.OpenFile("server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		stdlog.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	stdlog.SetOutput(io.MultiWriter(os.Stdout, logFile))
	stdlog.SetFlags(stdlog.LstdFlags | stdlog.Lmicroseconds)

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Warning: .env file not found, using environment variables")
	}

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		stdlog.Fatal("JWT_SECRET environment variable is required")
	}
	auth.InitJWTKey([]byte(jwtSecret))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		stdlog.Fatal("DATABASE_URL environment variable is required")
	}

	st, err := store.NewPostgresStore(dbURL)
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	stdlog.Println("Connected to database successfully")

	// Realtime insert feed: one LISTEN connection fanning out to every
	// mounted messaging view.
	feed := realtime.NewFeed()
	listener := realtime.NewListener(dbURL)
	defer listener.Close()
	go feed.Run(listener)
	defer feed.Close()

	// Initialize router with default middleware (logger and recovery)
	router := gin.Default()

	allowedOrigins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create API handlers
	authHandler := api.NewAuthHandler(st)
	messageHandler := api.NewMessageHandler(st)
	notificationHandler := api.NewNotificationHandler(st)
	propertyHandler := api.NewPropertyHandler(st)
	bookingHandler := api.NewBookingHandler(st)
	paymentHandler := api.NewPaymentHandler(st)
	reviewHandler := api.NewReviewHandler(st)
	adminHandler := api.NewAdminHandler(st)

	// Initialize WebSocket manager
	wsManager := internalWs.NewManager(st, feed)
	go wsManager.Run()
	api.WSManager = wsManager

	// Public routes (no authentication required)
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/properties", propertyHandler.ListProperties)
	router.GET("/api/properties/:propertyID", propertyHandler.GetProperty)

	// Protected routes (authentication required)
	authorized := router.Group("/api")
	authorized.Use(api.AuthMiddleware())
	{
		authorized.GET("/auth/me", authHandler.GetMe)
		authorized.GET("/users", authHandler.GetAllUsers)

		// Messaging routes
		authorized.GET("/messages/conversations", messageHandler.GetConversations)
		authorized.GET("/messages/conversation/:userID", messageHandler.GetConversation)
		authorized.POST("/messages", messageHandler.SendMessage)
		authorized.PUT("/messages/read/:userID", messageHandler.MarkConversationRead)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.GetNotifications)
		authorized.PUT("/notifications/:notificationID/read", notificationHandler.MarkNotificationRead)

		// Booking and payment workflows
		authorized.POST("/reservations", bookingHandler.CreateReservation)
		authorized.GET("/reservations", bookingHandler.ListReservations)
		authorized.PUT("/reservations/:reservationID/status",
			api.RequireRole(models.RoleLandlord), bookingHandler.SetReservationStatus)
		authorized.POST("/payments", paymentHandler.CreatePayment)
		authorized.GET("/payments", paymentHandler.ListPayments)
		authorized.PUT("/payments/:paymentID/verify",
			api.RequireRole(models.RoleLandlord), paymentHandler.VerifyPayment)

		// Reviews
		authorized.POST("/reviews", reviewHandler.CreateReview)
		authorized.GET("/reviews/pending",
			api.RequireRole(models.RoleAdmin), reviewHandler.ListPendingReviews)
		authorized.PUT("/reviews/:reviewID/approve",
			api.RequireRole(models.RoleAdmin), reviewHandler.ApproveReview)

		// Landlord listings
		authorized.POST("/properties",
			api.RequireRole(models.RoleLandlord), propertyHandler.CreateProperty)

		// Admin dashboard
		authorized.GET("/admin/overview",
			api.RequireRole(models.RoleAdmin), adminHandler.GetOverview)

		// WebSocket route with special middleware for token in URL parameter
		authorized.GET("/ws", func(c *gin.Context) {
			if _, exists := c.Get("userID"); exists {
				wsManager.HandleWebSocket(c)
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		})
	}

	// Browser WebSocket clients can't set headers, so /api/ws also
	// accepts the token as a query parameter, outside the middleware.
	router.GET("/ws", func(c *gin.Context) {
		tokenParam := c.Query("token")
		if tokenParam == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateToken(tokenParam)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userUUID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID format in token"})
			return
		}

		c.Set("userID", userUUID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		wsManager.HandleWebSocket(c)
	})

	// Add health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		stdlog.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stdlog.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		stdlog.Fatalf("Server forced to shutdown: %v", err)
	}

	stdlog.Println("Server exited properly")
}

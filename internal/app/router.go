package app

import (
	"time"

	"streamify-backend/internal/config"
	"streamify-backend/internal/middleware"
	"streamify-backend/internal/model"
	"streamify-backend/internal/repository"
	"streamify-backend/internal/service"
	"streamify-backend/internal/util"
	"streamify-backend/internal/websocket"
	"streamify-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware(cfg.ClientURL))

	// Rate limiting middleware (if enabled)
	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		logger.Log.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimitRPS), zap.Int("burst", cfg.RateLimitBurst))
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto migrate
	if err := db.AutoMigrate(&model.User{}, &model.FriendRequest{}, &model.Notification{}); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// GORM cannot express the partial unique index that guards against
	// duplicate pending requests between a pair, so it is created
	// directly after migration.
	ensurePendingPairIndex(db)

	// Initialize Redis with retry logic
	redisClient := initRedisWithRetry(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db, redisClient)
	notificationRepo := repository.NewNotificationRepository(db, redisClient)

	// Initialize RabbitMQ with retry logic
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	logger.Log.Info("websocket hub started")

	// Initialize Cloudinary client
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			logger.Log.Warn("failed to initialize Cloudinary, image uploads disabled", zap.Error(err))
		} else {
			logger.Log.Info("cloudinary initialized")
		}
	} else {
		logger.Log.Info("cloudinary credentials not configured, image uploads disabled")
	}

	// Initialize services
	tokenTTL := time.Duration(cfg.JWTExpiresHours) * time.Hour
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)
	notificationService := service.NewNotificationService(notificationRepo, rabbitMQ)
	notificationService.SetWSHub(wsHub)
	socialService := service.NewSocialService(requestRepo, userRepo, notificationService)
	chatService := service.NewChatService(userRepo, cfg.StreamAPISecret)

	// Initialize notification worker if RabbitMQ is available
	if rabbitMQ != nil {
		notificationWorker := service.NewNotificationWorker(rabbitMQ, wsHub)
		if err := notificationWorker.Start(); err != nil {
			logger.Log.Warn("failed to start notification worker", zap.Error(err))
		}
	}

	// Initialize handlers
	authHandler := NewAuthHandler(authService, cloudinaryClient, cfg.JWTSecret, tokenTTL)
	userHandler := NewUserHandler(socialService)
	chatHandler := NewChatHandler(chatService, cfg.StreamAPIKey)
	notificationHandler := NewNotificationHandler(notificationService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)

			// Protected routes
			auth.POST("/onboarding", authHandler.AuthMiddleware(), authHandler.Onboard)
			auth.POST("/profile-pic", authHandler.AuthMiddleware(), authHandler.UploadProfilePic)
			auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
		}

		// User / social graph routes
		users := api.Group("/users")
		users.Use(authHandler.AuthMiddleware())
		{
			users.GET("", userHandler.GetRecommendedUsers)
			users.GET("/friends", userHandler.GetFriends)
			users.GET("/friend-requests", userHandler.GetFriendRequests)
			users.GET("/outgoing-friend-requests", userHandler.GetOutgoingFriendRequests)
			users.POST("/friend-request/:id", userHandler.SendFriendRequest)
			users.PUT("/friend-request/:id/accept", userHandler.AcceptFriendRequest)
		}

		// Chat token route
		chat := api.Group("/chat")
		chat.Use(authHandler.AuthMiddleware())
		{
			chat.GET("/token", chatHandler.GetStreamToken)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		notifications.Use(authHandler.AuthMiddleware())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread/count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		}
	}

	// WebSocket route
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(wsHub, cfg.JWTSecret)(c.Writer, c.Request)
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "host=" + cfg.PostgresHost +
			" port=" + cfg.PostgresPort +
			" user=" + cfg.PostgresUser +
			" password=" + cfg.PostgresPassword +
			" dbname=" + cfg.PostgresDB +
			" sslmode=" + cfg.PostgresSSLMode
	}

	// TranslateError lets callers classify unique violations as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// ensurePendingPairIndex creates the partial unique index that makes the
// "one pending request per unordered pair" rule hold under concurrent
// sends: both directions normalize to the same key while pending.
func ensurePendingPairIndex(db *gorm.DB) {
	stmt := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_pending_pair
		ON friend_requests (LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id))
		WHERE status = 'pending'
	`
	if err := db.Exec(stmt).Error; err != nil {
		logger.Log.Error("failed to create pending pair index", zap.Error(err))
	}
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			logger.Log.Info("RabbitMQ connected", zap.Int("attempt", attempt))
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			logger.Log.Warn("failed to connect to RabbitMQ, retrying",
				zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
			time.Sleep(delay)
		} else {
			logger.Log.Warn("giving up on RabbitMQ, event publishing disabled", zap.Error(err))
		}
	}

	return nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			logger.Log.Info("Redis connected", zap.Int("attempt", attempt))
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			logger.Log.Warn("failed to connect to Redis, retrying",
				zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
			time.Sleep(delay)
		} else {
			logger.Log.Warn("giving up on Redis, caching disabled", zap.Error(err))
		}
	}

	return nil
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	allowedOrigins := []string{
		clientURL,
		"http://localhost:5173",
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-disaster-management/config"
	deliveryHttp "go-disaster-management/internal/delivery/http"
	"go-disaster-management/internal/delivery/http/handler"
	"go-disaster-management/internal/delivery/http/middleware"
	"go-disaster-management/internal/infrastructure/cache"
	"go-disaster-management/internal/infrastructure/database"
	"go-disaster-management/internal/infrastructure/oauth"
	"go-disaster-management/internal/repository"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/jwt"
	"go-disaster-management/pkg/mailer"
	"go-disaster-management/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Outbound mail: real delivery needs an endpoint, otherwise log only
	var mail mailer.Mailer
	if cfg.Mail.Endpoint != "" {
		mail = mailer.NewHTTPMailer(cfg.Mail, log)
	} else {
		mail = mailer.NewLogMailer(log)
	}

	// Google federated login
	googleProvider := oauth.NewGoogleProvider(cfg.OAuth)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	friendshipRepo := repository.NewFriendshipRepository()
	districtRepo := repository.NewDistrictRepository()
	shelterRepo := repository.NewShelterRepository()
	reviewRepo := repository.NewShelterReviewRepository()
	disasterRepo := repository.NewDisasterRepository()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, districtRepo, jwtService, redisClient, mail, cfg.App.FrontendURL)
	districtUsecase := usecase.NewDistrictUsecase(db, log, districtRepo, shelterRepo)
	shelterUsecase := usecase.NewShelterUsecase(db, log, shelterRepo, districtRepo, reviewRepo)
	reviewUsecase := usecase.NewShelterReviewUsecase(db, log, reviewRepo)
	disasterUsecase := usecase.NewDisasterUsecase(db, log, disasterRepo)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, friendshipRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService, googleProvider, log, cfg.Upload.Dir, cfg.App.FrontendURL)
	districtHandler := handler.NewDistrictHandler(districtUsecase, customValidator)
	shelterHandler := handler.NewShelterHandler(shelterUsecase, customValidator)
	reviewHandler := handler.NewShelterReviewHandler(reviewUsecase, customValidator)
	disasterHandler := handler.NewDisasterHandler(disasterUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.FrontendURL)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, cfg.RateLimit, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		districtHandler,
		shelterHandler,
		reviewHandler,
		disasterHandler,
		userHandler,
		authMiddleware,
		corsMiddleware,
		rateLimitMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

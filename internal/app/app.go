package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"uniplug_backend/internal/auth"
	"uniplug_backend/internal/config"
	"uniplug_backend/internal/email"
	"uniplug_backend/internal/handlers"
	"uniplug_backend/internal/logger"
	"uniplug_backend/internal/middleware"
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/push"
	"uniplug_backend/internal/repositories"
	"uniplug_backend/internal/routes"
	"uniplug_backend/internal/services"
	"uniplug_backend/internal/validator"
	"uniplug_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.PushSubscription{},
		&models.Notification{},
		&models.Store{},
		&models.Product{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	startWorkers(workerCtx, cfg, gormDB, serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	subscriptionRepo := repositories.NewPushSubscriptionRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	pushTransport := buildPushTransport(cfg)
	emailSender := buildEmailSender(cfg)

	templates, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("Failed to parse email templates", "error", err)
	}

	authService := services.NewAuthService(userRepo)
	subscriptionService := services.NewPushSubscriptionService(subscriptionRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	dispatchService := services.NewDispatchService(
		subscriptionRepo,
		notificationRepo,
		userRepo,
		pushTransport,
		emailSender,
		templates,
	)

	return &services.ServiceContainer{
		AuthService:             authService,
		PushSubscriptionService: subscriptionService,
		NotificationService:     notificationService,
		DispatchService:         dispatchService,
	}
}

func buildPushTransport(cfg *config.Config) push.Transport {
	transport, err := push.NewWebPushTransport(push.Config{
		VAPIDPublicKey:  cfg.VAPID.PublicKey,
		VAPIDPrivateKey: cfg.VAPID.PrivateKey,
		Subscriber:      cfg.VAPID.Subscriber,
		Timeout:         time.Duration(cfg.Push.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Warn("Push transport not configured, using mock", "error", err)
		return &MockPushTransport{}
	}
	return transport
}

func buildEmailSender(cfg *config.Config) email.Sender {
	sender, err := email.NewGomailSender(email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("Email sender not configured, using mock", "error", err)
		return &MockEmailSender{}
	}
	return sender
}

func initializeHandlers(cfg *config.Config, serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:             handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		PushSubscriptionHandler: handlers.NewPushSubscriptionHandler(baseHandler, serviceContainer.PushSubscriptionService, cfg.VAPID.PublicKey),
		NotificationHandler:     handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService, serviceContainer.DispatchService),
	}
}

func startWorkers(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) {
	productRepo := repositories.NewProductRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	lowStockWorker := workers.NewLowStockWorker(
		productRepo,
		serviceContainer.DispatchService,
		time.Duration(cfg.Workers.LowStockIntervalHours)*time.Hour,
		cfg.Workers.LowStockThreshold,
	)
	lowStockWorker.Start(ctx)

	cleanupWorker := workers.NewCleanupWorker(notificationRepo, cfg.Workers.CleanupDays)
	cleanupWorker.Start(ctx)

	logger.Info("Background workers started",
		"low_stock_interval_hours", cfg.Workers.LowStockIntervalHours,
		"cleanup_days", cfg.Workers.CleanupDays,
	)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("FIRST_ADMIN_EMAIL")
	adminPassword := os.Getenv("FIRST_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "canopy/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"canopy/internal/auth"
	"canopy/internal/cache"
	"canopy/internal/config"
	"canopy/internal/db"
	"canopy/internal/geocode"
	"canopy/internal/handler"
	"canopy/internal/model"
	"canopy/internal/push"
	"canopy/internal/queue"
	"canopy/internal/repository"
	"canopy/internal/router"
	"canopy/internal/service"
	"canopy/internal/storage"
)

// @title Canopy API
// @version 1.0
// @description Community tree-planting registry with submission, verification, and reporting.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Notification{},
			&model.UserToken{},
			&model.Tree{},
			&model.PlantingReason{},
			&model.TreeSpecies{},
			&model.User{},
			&model.Role{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.TreeSpecies{},
		&model.PlantingReason{},
		&model.Tree{},
		&model.Notification{},
		&model.UserToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	treeRepo := repository.NewTreeRepository(gormDB)
	speciesRepo := repository.NewSpeciesRepository(gormDB)
	reasonRepo := repository.NewReasonRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)

	// Session cookies
	sessions := auth.NewSessionService(
		cfg.JWTSecret,
		time.Duration(cfg.SessionMaxAgeHrs)*time.Hour,
		cfg.SessionSecure,
		cfg.SessionHTTPOnly,
		cfg.SessionSameSite,
	)

	// Optional integrations degrade to disabled when unconfigured.
	var pushSender push.Sender
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := push.NewFCMSender(context.Background(), cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Printf("Warning: FCM init failed, push notifications disabled: %v", err)
		} else {
			pushSender = fcm
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}

	var objectStore storage.ObjectStorage
	minioStore, err := storage.NewMinioStorage(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		log.Printf("Warning: MinIO init failed, image uploads disabled: %v", err)
	} else {
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: MinIO bucket check failed: %v", err)
		}
		objectStore = minioStore
	}

	geocoder := geocode.New(cfg.GeocodeBaseURL, cacheClient)

	events := queue.NewPublisher(cfg.RabbitMQURL)
	if events == nil {
		log.Println("RABBITMQ_URL not set, event publishing disabled")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions)
	notificationService := service.NewNotificationService(notificationRepo, tokenRepo, pushSender)
	treeService := service.NewTreeService(treeRepo, notificationService, geocoder, events)
	speciesService := service.NewSpeciesService(speciesRepo, reasonRepo, cacheClient)
	reportService := service.NewReportService(reportRepo, cacheClient)
	uploadService := service.NewUploadService(objectStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	treeHandler := handler.NewTreeHandler(treeService)
	verifyHandler := handler.NewVerifyHandler(treeService)
	speciesHandler := handler.NewSpeciesHandler(speciesService)
	reportHandler := handler.NewReportHandler(reportService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		treeHandler,
		verifyHandler,
		speciesHandler,
		reportHandler,
		uploadHandler,
		notificationHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

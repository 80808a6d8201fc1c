package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/framelight/studio-backend/internal/config"
	"github.com/framelight/studio-backend/internal/handler"
	"github.com/framelight/studio-backend/internal/middleware"
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/repository"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/framelight/studio-backend/pkg/database"
	"github.com/framelight/studio-backend/pkg/imaging"
	"github.com/framelight/studio-backend/pkg/logger"
	"github.com/framelight/studio-backend/pkg/payment"
	"github.com/framelight/studio-backend/pkg/qrcode"
	"github.com/framelight/studio-backend/pkg/storage"
	"github.com/framelight/studio-backend/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load .env; a missing file is fine in containerized deployments.
	_ = godotenv.Load()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	cfg := config.LoadConfig()

	db, err := database.NewDatabase()
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Media store for originals; previews/frames are always local.
	var store storage.Storage
	if cfg.Media.Backend == "r2" {
		store, err = storage.NewR2Storage(cfg)
		if err != nil {
			zapLogger.Fatal("Failed to initialize R2 storage", zap.Error(err))
		}
	} else {
		store, err = storage.NewLocalStorage(cfg.Media.UploadDir)
		if err != nil {
			zapLogger.Fatal("Failed to initialize local storage", zap.Error(err))
		}
	}

	renderer, err := imaging.NewRenderer(cfg.Media.PreviewDir, cfg.Media.FrameDir, "FRAMELIGHT STUDIO")
	if err != nil {
		zapLogger.Fatal("Failed to initialize image renderer", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	accessRepo := repository.NewGalleryAccessRepository(db)
	reconRepo := repository.NewReconciliationRepository(db)

	// Gateway client
	gateway := payment.NewClient(cfg.PayMongo.SecretKey())

	// QR service points scanned codes at the public gallery page
	qrService := qrcode.NewQRService(cfg.PublicBaseURL + "/gallery?code=")

	// Services
	authService := service.NewAuthService(userRepo)
	photoService := service.NewPhotoService(photoRepo, purchaseRepo, txRepo, store, renderer, zapLogger)
	checkoutService := service.NewCheckoutService(gateway, photoRepo, purchaseRepo, bookingRepo, cfg, zapLogger)
	webhookService := service.NewWebhookService(reconRepo, txRepo, bookingRepo, cfg, zapLogger)
	txService := service.NewTransactionService(txRepo)
	accessService := service.NewGalleryAccessService(accessRepo, userRepo, qrService, cfg.ValidityWindow, zapLogger)
	sweepService := service.NewSweepService(photoRepo, purchaseRepo, time.Hour, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	photoHandler := handler.NewPhotoHandler(photoService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validator)
	webhookHandler := handler.NewWebhookHandler(webhookService, cfg.PayMongo.WebhookSecret, cfg.PayMongo.Mode == "live", zapLogger)
	txHandler := handler.NewTransactionHandler(txService)
	accessHandler := handler.NewAccessHandler(accessService, validator)

	// Router
	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // staff batch uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.PublicBaseURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// Serve cached previews/frames directly from disk.
	app.Static("/uploads/previews", cfg.Media.PreviewDir)
	app.Static("/uploads/frames", cfg.Media.FrameDir)

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Gateway webhook (public, raw body)
	api.Post("/webhooks/payment-gateway", webhookHandler.HandlePaymentWebhook)

	// Gallery access codes (public validation)
	api.Get("/access/:code", accessHandler.ValidateCode)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		api.Get("/gallery", photoHandler.GetGallery)
		api.Get("/downloads/summary", photoHandler.GetDownloadSummary)
		api.Get("/transactions", txHandler.GetMyTransactions)

		photos := api.Group("/photos")
		photos.Get("/:id/download", photoHandler.DownloadPhoto)

		checkout := api.Group("/checkout")
		checkout.Post("/photo", checkoutHandler.CreatePhotoCheckout)
		checkout.Post("/bulk", checkoutHandler.CreateBulkCheckout)
		checkout.Post("/booking", checkoutHandler.CreateBookingCheckout)

		// Staff/admin routes
		staff := api.Group("", middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
		staff.Post("/photos/upload", photoHandler.UploadPhotos)
		staff.Delete("/photos/:id", photoHandler.DeletePhoto)
		staff.Post("/photos/delete-bulk", photoHandler.DeletePhotosBulk)
		staff.Get("/customers", authHandler.GetCustomers)
		staff.Get("/gallery/customer/:userId", photoHandler.GetCustomerGallery)
		staff.Post("/access/generate", accessHandler.GenerateCode)
		staff.Get("/transactions/all", txHandler.GetReport)
	}

	sweepService.Start()
	defer sweepService.Stop()

	// Stop the sweep cleanly on SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sweepService.Stop()
		_ = app.Shutdown()
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(":" + port); err != nil {
		zapLogger.Fatal("Server stopped", zap.Error(err))
	}
}

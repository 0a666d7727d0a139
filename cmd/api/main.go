package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shifacare/medstore-api/internal/application/service"
	"github.com/shifacare/medstore-api/internal/config"
	"github.com/shifacare/medstore-api/internal/infrastructure/database"
	"github.com/shifacare/medstore-api/internal/infrastructure/repository"
	"github.com/shifacare/medstore-api/internal/presentation/http/handler"
	"github.com/shifacare/medstore-api/internal/presentation/http/routes"
	"github.com/shifacare/medstore-api/pkg/oauth"
	"github.com/shifacare/medstore-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default categories and the first admin account
	if err := database.SeedDefaultData(db, &cfg.Admin); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuthService)
	medicineService := service.NewMedicineService(medicineRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, medicineRepo)
	donationService := service.NewDonationService(donationRepo, medicineRepo)
	dashboardService := service.NewDashboardService(invoiceRepo, medicineRepo, donationRepo, analyticsRepo)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Medicine:  handler.NewMedicineHandler(medicineService),
		Category:  handler.NewCategoryHandler(categoryService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Donation:  handler.NewDonationHandler(donationService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		User:      handler.NewUserHandler(userService),
	}

	// Sweep expired idempotency keys hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: failed to clean up idempotency keys: %v", err)
			}
		}
	}()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shifacare/medstore-api/internal/config"
	"github.com/shifacare/medstore-api/internal/domain/entity"
	domainRepo "github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/internal/presentation/http/handler"
	"github.com/shifacare/medstore-api/internal/presentation/http/middleware"
	"github.com/shifacare/medstore-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Medicine  *handler.MedicineHandler
	Category  *handler.CategoryHandler
	Invoice   *handler.InvoiceHandler
	Donation  *handler.DonationHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/google", h.Auth.GoogleLogin)
			auth.GET("/google/callback", h.Auth.GoogleCallback)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Authenticated account endpoints
	auth := rg.Group("/auth")
	{
		auth.GET("/me", h.Auth.GetProfile)
		auth.POST("/change-password", h.Auth.ChangePassword)
		auth.POST("/register", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)
	}

	// Catalog
	medicines := rg.Group("/medicines")
	{
		medicines.GET("", h.Medicine.ListMedicines)
		medicines.GET("/low-stock", h.Medicine.GetLowStock)
		medicines.GET("/:id", h.Medicine.GetMedicine)
		medicines.POST("", middleware.RequireRole(entity.RoleAdmin), h.Medicine.CreateMedicine)
		medicines.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.Medicine.UpdateMedicine)
		medicines.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Medicine.DeleteMedicine)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.Category.ListCategories)
		categories.GET("/:id", h.Category.GetCategory)
		categories.POST("", middleware.RequireRole(entity.RoleAdmin), h.Category.CreateCategory)
		categories.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.Category.UpdateCategory)
		categories.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Category.DeleteCategory)
	}

	// Sales. Checkout requires an Idempotency-Key so a double submit
	// cannot create two invoices.
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.Invoice.ListInvoices)
		invoices.GET("/:id", h.Invoice.GetInvoice)
		invoices.GET("/number/:number", h.Invoice.GetInvoiceByNumber)
		invoices.POST("", middleware.IdempotencyRequired(deps.IdempotencyRepo), h.Invoice.CreateInvoice)
	}

	donations := rg.Group("/donations")
	{
		donations.GET("", h.Donation.ListDonations)
		donations.GET("/:id", h.Donation.GetDonation)
		donations.POST("", h.Donation.CreateDonation)
		donations.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.Donation.UpdateDonation)
		donations.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Donation.DeleteDonation)
	}

	rg.GET("/dashboard/stats", h.Dashboard.GetStats)

	// User management (admin only)
	users := rg.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.ListUsers)
		users.GET("/:id", h.User.GetUser)
		users.PUT("/:id/role", h.User.UpdateUserRole)
		users.DELETE("/:id", h.User.DeleteUser)
	}
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/api"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/middleware"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

// Dependencies are the services the HTTP layer is built from. Redis may be nil.
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Auth         service.IAuthService
	Roles        service.IRoleService
	Reservations service.IReservationService
	Catalog      service.ICatalogService
	Gallery      service.IGalleryService
	Settings     service.ISettingsService
}

// SetupRouter configures the application routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	router := gin.New()
	// Rate limits key on the client IP, so forwarding headers are only
	// believed when they come from a configured proxy.
	if err := router.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.ErrorLogger.WithError(err).Error("invalid trusted proxies; ignoring forwarding headers")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(deps.Config.CORSOrigins))

	healthHandler := api.NewHealthHandler(deps.DB)
	authHandler := api.NewAuthHandler(deps.Auth, deps.Roles)
	reservationHandler := api.NewReservationHandler(deps.Reservations)
	catalogHandler := api.NewCatalogHandler(deps.Catalog)
	galleryHandler := api.NewGalleryHandler(deps.Gallery)
	settingsHandler := api.NewSettingsHandler(deps.Settings)

	reservationLimiter := middleware.NewReservationRateLimiter(deps.Redis)
	authLimiter := middleware.NewAuthRateLimiter(deps.Redis)

	router.GET("/health", healthHandler.HealthCheck)

	v1 := router.Group("/api/v1")

	// Public site
	settingsHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	galleryHandler.RegisterPublicRoutes(v1)
	reservationHandler.RegisterPublicRoutes(v1, reservationLimiter.RateLimitMiddleware())

	// Accounts
	authHandler.RegisterRoutes(v1, authLimiter.RateLimitMiddleware())

	// Admin console
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.Auth))
	admin.Use(middleware.RequireAdmin(deps.Roles))
	{
		authHandler.RegisterAdminRoutes(admin)
		reservationHandler.RegisterAdminRoutes(admin)
		catalogHandler.RegisterAdminRoutes(admin)
		galleryHandler.RegisterAdminRoutes(admin)
		settingsHandler.RegisterAdminRoutes(admin)
	}

	return router
}

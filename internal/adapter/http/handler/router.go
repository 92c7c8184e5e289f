package handler

import (
	"app-marketplace/internal/adapter/http/middleware"
	redisStore "app-marketplace/internal/adapter/storage/redis"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PurchaseSvc    ports.PurchaseService
	CatalogSvc     ports.CatalogService
	WalletSvc      ports.WalletService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	PageSize       int
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 16)) // 64 KB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus scrape endpoint
	r.GET("/metrics", metrics.Handler())

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes, all behind the external identity provider's JWT
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc, deps.PageSize)
	purchases := v1.Group("/purchases")
	{
		purchases.POST("", rl("purchases"), purchaseHandler.Purchase)
		purchases.GET("", rl("purchases"), purchaseHandler.ListPurchases)
		purchases.GET("/:id", rl("purchases"), purchaseHandler.GetPurchase)
	}

	catalogHandler := NewCatalogHandler(deps.CatalogSvc, deps.PageSize)
	catalog := v1.Group("/catalog")
	{
		catalog.GET("", rl("catalog"), catalogHandler.ListCatalog)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Seed)
		wallets.GET("/balance", rl("wallets"), walletHandler.GetBalance)
	}

	return r
}

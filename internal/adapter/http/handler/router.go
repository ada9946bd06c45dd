package handler

import (
	"reseller-server/internal/adapter/http/middleware"
	redisStore "reseller-server/internal/adapter/storage/redis"
	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Verifier       ports.TokenVerifier
	UserSvc        ports.UserService
	WithdrawSvc    ports.WithdrawService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	ReleaseMode    bool
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	response.SetReleaseMode(deps.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

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

	authn := middleware.Authenticate(deps.Verifier, deps.Logger)
	sellerOnly := middleware.RequireRole(domain.RoleSeller)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawSvc)
	userHandler := NewUserHandler(deps.UserSvc)

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Seller routes ---
	withdrawals := v1.Group("/withdrawals", authn, sellerOnly)
	{
		withdrawals.POST("", rl("withdrawals"), withdrawalHandler.Create)
		withdrawals.GET("", rl("withdrawals_list"), withdrawalHandler.ListOwn)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin", authn, adminOnly, rl("admin"))
	{
		admin.GET("/withdrawals", withdrawalHandler.List)
		admin.PATCH("/withdrawals/:id/approve", withdrawalHandler.Approve)
		admin.PATCH("/withdrawals/:id/reject", withdrawalHandler.Reject)

		admin.POST("/sellers", userHandler.CreateSeller)
		admin.GET("/sellers", userHandler.ListSellers)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	return r
}

package handler

import (
	"net/http"

	"donation-platform/config"
	"donation-platform/internal/adapter/http/middleware"
	redisStore "donation-platform/internal/adapter/storage/redis"
	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	Accounts       ports.AccountService
	Ledger         ports.LedgerService
	Donations      ports.DonationService
	Stats          ports.StatsService
	TokenSvc       ports.TokenService
	Blocklist      ports.TokenBlocklist       // nil = logout is client-side only
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimits     config.RateLimitConfig
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Metrics        http.Handler       // nil = no /metrics endpoint
	MaxBodyBytes   int64
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBody))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	rules := middleware.RateLimitRules(deps.RateLimits)

	// rl returns the group's rate limiter, or a no-op when limiting is off.
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

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Blocklist, deps.Logger)

	v1 := r.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthSvc, deps.Accounts)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl(middleware.GroupAuth), authHandler.Register)
		auth.POST("/login", rl(middleware.GroupAuth), authHandler.Login)
		auth.POST("/logout", jwtAuth, authHandler.Logout)
		auth.GET("/profile", jwtAuth, rl(middleware.GroupRead), authHandler.Profile)
	}

	donorHandler := NewDonorHandler(deps.Accounts, deps.Donations)
	donor := v1.Group("/donor", jwtAuth, middleware.RequireRole(domain.RoleDonor, domain.RoleStaff))
	{
		donor.POST("/balance", rl(middleware.GroupDonate), donorHandler.Deposit)
		donor.GET("/balance", rl(middleware.GroupRead), donorHandler.Balance)
		donor.GET("/transactions", rl(middleware.GroupRead), donorHandler.Transactions)
		donor.POST("/donate", rl(middleware.GroupDonate), donorHandler.Donate)
	}

	recipientHandler := NewRecipientHandler(deps.Ledger)
	recipient := v1.Group("/recipient", jwtAuth, middleware.RequireRole(domain.RoleRecipient))
	{
		recipient.POST("/requests", rl(middleware.GroupDonate), recipientHandler.Create)
		recipient.GET("/requests", rl(middleware.GroupRead), recipientHandler.ListMine)
	}

	adminHandler := NewAdminHandler(deps.Ledger)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireRole(domain.RoleAdmin, domain.RoleStaff))
	{
		admin.GET("/requests/pending", rl(middleware.GroupRead), adminHandler.Pending)
		admin.POST("/requests/:id/approve", adminHandler.Approve)
		admin.POST("/requests/:id/decline", adminHandler.Decline)
	}

	requestHandler := NewRequestHandler(deps.Ledger, deps.Stats)
	requests := v1.Group("/requests", rl(middleware.GroupRead))
	{
		requests.GET("/approved", requestHandler.Approved)
		requests.GET("/:id", middleware.OptionalJWTAuth(deps.TokenSvc, deps.Blocklist, deps.Logger), requestHandler.Get)
	}
	v1.GET("/stats", rl(middleware.GroupRead), requestHandler.Stats)

	return r
}

package handler

import (
	"bank-ledger/internal/adapter/http/middleware"
	redisStore "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
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

	// API v1 routes
	v1 := r.Group("/api/v1")

	accountHandler := NewAccountHandler(deps.LedgerSvc)
	accounts := v1.Group("/accounts")
	{
		accounts.POST("", rl("accounts_create"), accountHandler.CreateAccount)
		accounts.POST("/transfer", rl("transfers"), accountHandler.Transfer)
		accounts.GET("/:accountNumber", rl("reads"), accountHandler.GetAccount)
		accounts.PUT("/:accountNumber", rl("accounts_mutate"), accountHandler.UpdateAccount)
		accounts.DELETE("/:accountNumber", rl("accounts_mutate"), accountHandler.DeleteAccount)
		accounts.PUT("/:accountNumber/deposit", rl("accounts_mutate"), accountHandler.Deposit)
		accounts.PUT("/:accountNumber/withdraw", rl("accounts_mutate"), accountHandler.Withdraw)
		accounts.GET("/:accountNumber/transactions", rl("reads"), accountHandler.ListTransactions)
	}

	return r
}

package handler

import (
	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Config      *config.Config
	Wallet      *service.WalletService
	Audit       *service.AuditService
	Idempotency middleware.IdempotencyStore
}

// NewRouter wires the gateway routes and middleware.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware(d.Audit))

	r.GET("/health", NewHealthHandler(d.Wallet).Check)

	if d.Config.Metrics.Enabled && d.Config.Metrics.Path != "" {
		r.GET(d.Config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	keys := NewKeysHandler(d.Wallet)
	txs := NewTransactionHandler(d.Wallet)
	audit := NewAuditHandler(d.Audit)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(d.Config.Auth))
	v1.Use(middleware.RateLimitMiddleware(middleware.NewCallerLimiter(d.Config.RateLimit.QPS, d.Config.RateLimit.Burst)))
	v1.Use(middleware.ReadOnlyMiddleware(d.Config.Server.ReadOnly))
	v1.Use(middleware.IdempotencyMiddleware(d.Idempotency))
	{
		v1.GET("/keys", keys.List)
		v1.POST("/transactions", txs.Send)
		v1.GET("/audit", audit.List)
	}
	return r
}

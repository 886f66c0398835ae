package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"payswiftly/internal/handler"
	"payswiftly/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	DriverHandler  *handler.DriverHandler
	PaymentHandler *handler.PaymentHandler
	WebhookHandler *handler.WebhookHandler
	AdminHandler   *handler.AdminHandler
	TokenParser    middleware.TokenParser
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(deps.TokenParser)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.POST("/login", deps.DriverHandler.Login)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.GET("/:id/transactions", authRequired, middleware.RequireSelf(), deps.DriverHandler.ListTransactions)
			drivers.GET("/:id/payouts", authRequired, middleware.RequireSelf(), deps.DriverHandler.ListPayouts)
		}

		// Payment routes, hit by the public pay page.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.CreatePayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}

		// Provider callbacks.
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/gateway", deps.WebhookHandler.HandleGatewayWebhook)
		}

		// Operator routes.
		admin := v1.Group("/admin")
		{
			admin.POST("/payouts/batch", deps.AdminHandler.TriggerBatchPayouts)
			admin.GET("/stats", deps.AdminHandler.GetStats)
		}
	}

	return router
}

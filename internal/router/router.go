package router

import (
	"fmt"
	"strings"

	"github.com/bixmobil/vest/internal/cache"
	"github.com/bixmobil/vest/internal/config"
	agenthandlers "github.com/bixmobil/vest/internal/http/handlers/agent"
	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the HTTP routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	agentHandler := agenthandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bx"
	}
	redisClient := cache.Client()
	commitRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:commit", redisPrefix),
		WindowSeconds: cfg.Vending.CommitRateLimit.WindowSeconds,
		MaxRequests:   cfg.Vending.CommitRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		authed := apiV1.Group("")
		authed.Use(AgentJWTAuthMiddleware(cfg.JWT.SecretKey, c.AgentRepo))
		{
			authed.GET("/me", agentHandler.GetProfile)

			authed.POST("/print-sessions", agentHandler.CreatePrintSession)
			authed.GET("/print-sessions/:id", agentHandler.GetPrintSession)
			authed.PUT("/print-sessions/:id/selection", agentHandler.UpdatePrintSelection)
			authed.POST("/print-sessions/:id/generate", agentHandler.GenerateBatch)
			authed.POST("/print-sessions/:id/back", agentHandler.BackToSelection)
			authed.POST("/print-sessions/:id/discard", agentHandler.DiscardPrintSession)
			authed.POST("/print-sessions/:id/commit",
				RateLimitMiddleware(redisClient, commitRule, KeyByAgentID),
				agentHandler.CommitPrint)

			authed.GET("/cards", agentHandler.ListCards)
			authed.GET("/cards/stats", agentHandler.GetCardStats)
			authed.POST("/cards/sell", agentHandler.SellCard)
			authed.POST("/cards/use", agentHandler.UseCard)

			authed.GET("/batches", agentHandler.ListBatches)
			authed.GET("/batches/:id", agentHandler.GetBatch)
			authed.GET("/batches/:id/receipt", agentHandler.GetBatchReceipt)
			authed.GET("/batches/:id/export", agentHandler.ExportBatch)

			authed.GET("/wallet", agentHandler.GetWallet)
			authed.GET("/wallet/transactions", agentHandler.ListWalletTransactions)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

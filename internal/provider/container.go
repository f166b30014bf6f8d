package provider

import (
	"time"

	"github.com/bixmobil/vest/internal/cache"
	"github.com/bixmobil/vest/internal/config"
	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/queue"
	"github.com/bixmobil/vest/internal/repository"
	"github.com/bixmobil/vest/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AgentRepo        repository.AgentRepository
	SessionRepo      repository.PrintSessionRepository
	CardRepo         repository.CardRepository
	CardBatchRepo    repository.CardBatchRepository
	WalletRepo       repository.WalletRepository
	PrintReceiptRepo repository.PrintReceiptRepository

	// Services
	WalletService       *service.WalletService
	PrintSessionService *service.PrintSessionService
	CardService         *service.CardService
	ReceiptService      *service.ReceiptService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AgentRepo = repository.NewAgentRepository(db)
	c.SessionRepo = repository.NewPrintSessionRepository(db)
	c.CardRepo = repository.NewCardRepository(db)
	c.CardBatchRepo = repository.NewCardBatchRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.PrintReceiptRepo = repository.NewPrintReceiptRepository(db)
}

func (c *Container) initServices() {
	c.WalletService = service.NewWalletService(c.WalletRepo)
	c.PrintSessionService = service.NewPrintSessionService(
		c.SessionRepo,
		c.CardRepo,
		c.CardBatchRepo,
		c.WalletService,
		c.QueueClient,
		c.Config.Vending.MaxCardsPerBatch,
		time.Duration(c.Config.Vending.SessionExpireMinutes)*time.Minute,
	)
	c.CardService = service.NewCardService(c.CardRepo, c.CardBatchRepo, c.PrintReceiptRepo)
	c.ReceiptService = service.NewReceiptService(c.PrintReceiptRepo, c.CardBatchRepo, c.CardRepo, c.AgentRepo)
}

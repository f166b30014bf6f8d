package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bixmobil/vest/internal/config"
	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sessionSweepInterval = time.Minute
	sessionSweepLimit    = 100
)

// Service is the async queue service.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the async queue service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the worker until shutdown.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.PrintSessionService != nil {
		go s.runSessionSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the worker down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runSessionSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PrintSessionService == nil {
		return
	}
	runOnce := func() {
		swept, err := s.consumer.PrintSessionService.SweepExpiredSessions(time.Now(), sessionSweepLimit)
		if err != nil {
			logger.Warnw("worker_session_sweep_failed", "error", err)
			return
		}
		if swept > 0 {
			logger.Infow("worker_session_sweep_done", "swept", swept)
		}
	}
	runOnce()

	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

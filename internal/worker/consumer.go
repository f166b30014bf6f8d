package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/provider"
	"github.com/bixmobil/vest/internal/queue"
	"github.com/bixmobil/vest/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskBatchReceipt, c.handleBatchReceipt)
	mux.HandleFunc(queue.TaskSessionSweep, c.handleSessionSweep)
}

func (c *Consumer) handleBatchReceipt(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_batch_receipt_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.BatchReceiptPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_batch_receipt_unmarshal_failed", "error", err)
		return err
	}
	if payload.BatchID == 0 {
		logger.Debugw("worker_batch_receipt_skip_invalid_payload", "batch_id", payload.BatchID)
		return nil
	}
	if c.ReceiptService == nil {
		logger.Warnw("worker_batch_receipt_skip_receipt_service_nil", "batch_id", payload.BatchID)
		return nil
	}
	_, err := c.ReceiptService.BuildForBatch(payload.BatchID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			logger.Debugw("worker_batch_receipt_skip_batch_not_found", "batch_id", payload.BatchID)
			return nil
		default:
			logger.Warnw("worker_batch_receipt_failed", "batch_id", payload.BatchID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleSessionSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_session_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SessionSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_session_sweep_unmarshal_failed", "error", err)
		return err
	}
	if c.PrintSessionService == nil {
		logger.Warnw("worker_session_sweep_skip_session_service_nil")
		return nil
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = sessionSweepLimit
	}
	swept, err := c.PrintSessionService.SweepExpiredSessions(time.Now(), limit)
	if err != nil {
		logger.Warnw("worker_session_sweep_task_failed", "error", err)
		return err
	}
	if swept > 0 {
		logger.Infow("worker_session_sweep_task_done", "swept", swept)
	}
	return nil
}

package queue

import (
	"encoding/json"

	"github.com/bixmobil/vest/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskBatchReceipt renders the printable receipt of a committed batch
	TaskBatchReceipt = constants.TaskBatchReceipt
	// TaskSessionSweep discards print sessions past their deadline
	TaskSessionSweep = constants.TaskSessionSweep
)

// BatchReceiptPayload carries the batch to build a receipt for.
type BatchReceiptPayload struct {
	BatchID uint `json:"batch_id"`
}

// SessionSweepPayload carries sweep parameters.
type SessionSweepPayload struct {
	Limit int `json:"limit"`
}

// NewBatchReceiptTask builds a batch receipt task.
func NewBatchReceiptTask(payload BatchReceiptPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBatchReceipt, body), nil
}

// NewSessionSweepTask builds a session sweep task.
func NewSessionSweepTask(payload SessionSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSweep, body), nil
}

package agent

import (
	"errors"

	"github.com/bixmobil/vest/internal/http/response"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto the response envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, service.ErrReceiptNotFound),
		errors.Is(err, service.ErrWalletAccountNotFound),
		errors.Is(err, service.ErrAgentNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrSessionStage),
		errors.Is(err, service.ErrCommitConflict),
		errors.Is(err, service.ErrCardStatusInvalid):
		respondError(c, response.CodeConflict, err.Error(), nil)
	case errors.Is(err, service.ErrSessionInvalid),
		errors.Is(err, service.ErrSelectionEmpty),
		errors.Is(err, service.ErrSelectionInvalid),
		errors.Is(err, service.ErrBatchTooLarge),
		errors.Is(err, service.ErrCommitTokenRequired),
		errors.Is(err, service.ErrCardInvalid),
		errors.Is(err, service.ErrWalletInvalidAmount):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "internal error", err)
	}
}

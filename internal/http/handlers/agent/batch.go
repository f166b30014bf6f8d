package agent

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/http/response"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBatches queries the agent's print batches.
func (h *Handler) ListBatches(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	batches, total, err := h.CardService.ListBatches(service.CardBatchListInput{
		AgentID:  agentID,
		Network:  c.Query("network"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, batches, pagination)
}

// GetBatch returns one batch owned by the agent.
func (h *Handler) GetBatch(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	batchID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	batch, err := h.CardService.GetBatch(agentID, batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, batch)
}

// GetBatchReceipt returns the rendered receipt of one batch. A batch
// whose receipt has not been rendered yet gets it built inline.
func (h *Handler) GetBatchReceipt(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	batchID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	receipt, err := h.CardService.GetReceipt(agentID, batchID)
	if err != nil {
		if !errors.Is(err, service.ErrReceiptNotFound) || h.ReceiptService == nil {
			respondServiceError(c, err)
			return
		}
		receipt, err = h.ReceiptService.BuildForBatch(batchID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	response.Success(c, receipt)
}

// ExportBatch downloads a batch's cards as csv or txt.
func (h *Handler) ExportBatch(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	batchID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", constants.ExportFormatCSV)
	data, contentType, err := h.CardService.ExportBatch(agentID, batchID, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("batch-%d.%s", batchID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, contentType, data)
}

package agent

import (
	"strconv"
	"strings"

	"github.com/bixmobil/vest/internal/http/response"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
)

// CardStatusRequest targets one card by serial number.
type CardStatusRequest struct {
	SerialNumber string `json:"serial_number" binding:"required"`
}

// ListCards queries the agent's card inventory.
func (h *Handler) ListCards(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	batchID, _ := strconv.ParseUint(c.Query("batch_id"), 10, 64)

	cards, total, err := h.CardService.ListCards(service.CardListInput{
		AgentID:  agentID,
		Network:  c.Query("network"),
		Status:   c.Query("status"),
		BatchID:  uint(batchID),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, cards, pagination)
}

// GetCardStats aggregates the agent's inventory by status.
func (h *Handler) GetCardStats(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	stats, err := h.CardService.Stats(agentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

// SellCard marks a printed card as sold.
func (h *Handler) SellCard(c *gin.Context) {
	h.advanceCardStatus(c, h.CardService.SellCard)
}

// UseCard marks a sold card as used.
func (h *Handler) UseCard(c *gin.Context) {
	h.advanceCardStatus(c, h.CardService.UseCard)
}

func (h *Handler) advanceCardStatus(c *gin.Context, move func(uint, string) (*models.RechargeCard, error)) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	var req CardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	card, err := move(agentID, strings.TrimSpace(req.SerialNumber))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, card)
}

package agent

import (
	"strconv"

	"github.com/bixmobil/vest/internal/http/response"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
)

// GetWallet returns the agent's commission wallet.
func (h *Handler) GetWallet(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	account, err := h.WalletService.GetAccount(agentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, account)
}

// ListWalletTransactions returns the agent's wallet ledger.
func (h *Handler) ListWalletTransactions(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	transactions, total, err := h.WalletService.ListTransactions(service.WalletTransactionListInput{
		AgentID:   agentID,
		Type:      c.Query("type"),
		Direction: c.Query("direction"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, transactions, pagination)
}

// GetProfile returns the authenticated agent.
func (h *Handler) GetProfile(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	agent, err := h.AgentRepo.GetByID(agentID)
	if err != nil {
		respondError(c, response.CodeInternal, "agent fetch failed", err)
		return
	}
	if agent == nil {
		respondError(c, response.CodeNotFound, "agent not found", nil)
		return
	}
	response.Success(c, agent)
}

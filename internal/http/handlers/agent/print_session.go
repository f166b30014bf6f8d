package agent

import (
	"strconv"
	"strings"

	"github.com/bixmobil/vest/internal/http/response"
	"github.com/bixmobil/vest/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateSessionRequest opens a print session for one network.
type CreateSessionRequest struct {
	Network string `json:"network" binding:"required"`
}

// UpdateSelectionRequest adjusts one denomination quantity.
type UpdateSelectionRequest struct {
	Denomination int64 `json:"denomination" binding:"required"`
	Delta        int   `json:"delta" binding:"required"`
}

// CommitPrintRequest commits the reviewed batch.
type CommitPrintRequest struct {
	CommitToken string `json:"commit_token" binding:"required"`
}

// CreatePrintSession opens a new session in the selecting stage.
func (h *Handler) CreatePrintSession(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	session, err := h.PrintSessionService.CreateSession(service.CreateSessionInput{
		AgentID: agentID,
		Network: strings.TrimSpace(strings.ToLower(req.Network)),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// GetPrintSession returns one session owned by the agent.
func (h *Handler) GetPrintSession(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	session, err := h.PrintSessionService.GetSession(agentID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// UpdatePrintSelection adjusts the quantity of one denomination.
func (h *Handler) UpdatePrintSelection(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	session, err := h.PrintSessionService.UpdateSelection(service.UpdateSelectionInput{
		AgentID:      agentID,
		SessionID:    sessionID,
		Denomination: req.Denomination,
		Delta:        req.Delta,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// GenerateBatch moves the session to review with freshly generated cards.
func (h *Handler) GenerateBatch(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	session, cards, err := h.PrintSessionService.GenerateBatch(agentID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"session": session,
		"cards":   cards,
	})
}

// BackToSelection returns a reviewing session to the selecting stage.
func (h *Handler) BackToSelection(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	session, err := h.PrintSessionService.Back(agentID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// DiscardPrintSession abandons the session.
func (h *Handler) DiscardPrintSession(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	session, err := h.PrintSessionService.Discard(agentID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, session)
}

// CommitPrint writes the reviewed batch to the inventory ledger and
// credits commission. Replays with the same token return the original
// result.
func (h *Handler) CommitPrint(c *gin.Context) {
	agentID, ok := getAgentID(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req CommitPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	result, err := h.PrintSessionService.CommitPrint(service.CommitPrintInput{
		AgentID:   agentID,
		SessionID: sessionID,
		Token:     strings.TrimSpace(req.CommitToken),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	payload := gin.H{
		"session": result.Session,
		"batch":   result.Batch,
		"cards":   result.Cards,
	}
	if result.Account != nil {
		payload["account"] = result.Account
	}
	if result.Txn != nil {
		payload["commission_txn"] = result.Txn
	}
	response.Success(c, payload)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(value), true
}

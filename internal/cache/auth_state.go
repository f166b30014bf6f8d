package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bixmobil/vest/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AgentAuthState is the server-side auth snapshot of an agent. It
// keeps token verification from hitting the database on every request.
type AgentAuthState struct {
	AgentID   uint   `json:"agent_id"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

func agentAuthStateKey(agentID uint) string {
	return fmt.Sprintf("auth:agent:%d", agentID)
}

// BuildAgentAuthState builds an auth snapshot from the agent model.
func BuildAgentAuthState(agent *models.Agent) *AgentAuthState {
	if agent == nil {
		return nil
	}
	return &AgentAuthState{
		AgentID:   agent.ID,
		Email:     agent.Email,
		Status:    agent.Status,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetAgentAuthState reads an agent auth snapshot.
func GetAgentAuthState(ctx context.Context, agentID uint) (*AgentAuthState, bool, error) {
	if agentID == 0 {
		return nil, false, nil
	}
	var state AgentAuthState
	hit, err := GetJSON(ctx, agentAuthStateKey(agentID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAgentAuthState writes an agent auth snapshot.
func SetAgentAuthState(ctx context.Context, state *AgentAuthState) error {
	if state == nil || state.AgentID == 0 {
		return nil
	}
	return SetJSON(ctx, agentAuthStateKey(state.AgentID), state, authStateCacheTTL)
}

// DelAgentAuthState removes an agent auth snapshot.
func DelAgentAuthState(ctx context.Context, agentID uint) error {
	if agentID == 0 {
		return nil
	}
	return Del(ctx, agentAuthStateKey(agentID))
}

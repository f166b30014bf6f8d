package models

import (
	"strings"

	"github.com/bixmobil/vest/internal/logger"
)

// InitDefaultAgent provisions a demo agent with an empty wallet when
// the agents table is empty. Used by local setups before the identity
// provider is wired.
func InitDefaultAgent(name, email string) error {
	var count int64
	DB.Model(&Agent{}).Count(&count)
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(name) == "" {
		name = "Demo Agent"
	}
	if strings.TrimSpace(email) == "" {
		email = "agent@bixmobilvest.ng"
	}

	agent := Agent{
		Name:         name,
		Email:        email,
		BusinessName: "Bix Mobil Vest",
		Status:       "active",
	}
	if err := DB.Create(&agent).Error; err != nil {
		return err
	}
	if err := DB.Create(&WalletAccount{AgentID: agent.ID}).Error; err != nil {
		return err
	}

	logger.Warnw("default_agent_created", "agent_id", agent.ID, "email", email)
	return nil
}

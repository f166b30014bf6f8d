package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bixmobil/vest/internal/models"

	"gorm.io/gorm"
)

// AgentRepository is the agent profile data access interface.
type AgentRepository interface {
	Create(agent *models.Agent) error
	GetByID(id uint) (*models.Agent, error)
	GetByEmail(email string) (*models.Agent, error)
	Update(agent *models.Agent) error
	TouchLastSeen(id uint, at time.Time) error
	WithTx(tx *gorm.DB) *GormAgentRepository
}

// GormAgentRepository is the GORM implementation.
type GormAgentRepository struct {
	db *gorm.DB
}

// NewAgentRepository builds an agent repository.
func NewAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormAgentRepository) WithTx(tx *gorm.DB) *GormAgentRepository {
	if tx == nil {
		return r
	}
	return &GormAgentRepository{db: tx}
}

// Create inserts an agent.
func (r *GormAgentRepository) Create(agent *models.Agent) error {
	return r.db.Create(agent).Error
}

// GetByID fetches one agent by id.
func (r *GormAgentRepository) GetByID(id uint) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

// GetByEmail fetches one agent by email.
func (r *GormAgentRepository) GetByEmail(email string) (*models.Agent, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var agent models.Agent
	if err := r.db.Where("email = ?", email).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

// Update saves an agent.
func (r *GormAgentRepository) Update(agent *models.Agent) error {
	return r.db.Save(agent).Error
}

// TouchLastSeen records the time of the latest authenticated request.
func (r *GormAgentRepository) TouchLastSeen(id uint, at time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Agent{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
}

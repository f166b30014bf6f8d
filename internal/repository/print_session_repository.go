package repository

import (
	"errors"
	"time"

	"github.com/bixmobil/vest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrintSessionRepository is the print workflow data access interface.
type PrintSessionRepository interface {
	Create(session *models.PrintSession) error
	GetByID(id uint) (*models.PrintSession, error)
	GetByIDForUpdate(id uint) (*models.PrintSession, error)
	Update(session *models.PrintSession) error
	ListExpired(before time.Time, limit int) ([]models.PrintSession, error)
	WithTx(tx *gorm.DB) *GormPrintSessionRepository
}

// GormPrintSessionRepository is the GORM implementation.
type GormPrintSessionRepository struct {
	db *gorm.DB
}

// NewPrintSessionRepository builds a session repository.
func NewPrintSessionRepository(db *gorm.DB) *GormPrintSessionRepository {
	return &GormPrintSessionRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPrintSessionRepository) WithTx(tx *gorm.DB) *GormPrintSessionRepository {
	if tx == nil {
		return r
	}
	return &GormPrintSessionRepository{db: tx}
}

// Create inserts a session.
func (r *GormPrintSessionRepository) Create(session *models.PrintSession) error {
	return r.db.Create(session).Error
}

// GetByID fetches one session by id.
func (r *GormPrintSessionRepository) GetByID(id uint) (*models.PrintSession, error) {
	var session models.PrintSession
	if err := r.db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetByIDForUpdate fetches one session by id with a row lock.
func (r *GormPrintSessionRepository) GetByIDForUpdate(id uint) (*models.PrintSession, error) {
	var session models.PrintSession
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Update saves a session.
func (r *GormPrintSessionRepository) Update(session *models.PrintSession) error {
	return r.db.Save(session).Error
}

// ListExpired returns open sessions whose deadline has passed.
func (r *GormPrintSessionRepository) ListExpired(before time.Time, limit int) ([]models.PrintSession, error) {
	query := r.db.Model(&models.PrintSession{}).
		Where("stage IN ?", []string{models.SessionStageSelecting, models.SessionStageReview}).
		Where("expires_at < ?", before).
		Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var sessions []models.PrintSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

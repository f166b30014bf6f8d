package repository

import (
	"errors"
	"strings"

	"github.com/bixmobil/vest/internal/models"

	"gorm.io/gorm"
)

// CardBatchListFilter filters batch queries.
type CardBatchListFilter struct {
	AgentID  uint
	Network  string
	Page     int
	PageSize int
}

// CardBatchRepository is the print batch data access interface.
type CardBatchRepository interface {
	Create(batch *models.CardBatch) error
	GetByID(id uint) (*models.CardBatch, error)
	GetByBatchNo(batchNo string) (*models.CardBatch, error)
	List(filter CardBatchListFilter) ([]models.CardBatch, int64, error)
	WithTx(tx *gorm.DB) *GormCardBatchRepository
}

// GormCardBatchRepository is the GORM implementation.
type GormCardBatchRepository struct {
	db *gorm.DB
}

// NewCardBatchRepository builds a batch repository.
func NewCardBatchRepository(db *gorm.DB) *GormCardBatchRepository {
	return &GormCardBatchRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCardBatchRepository) WithTx(tx *gorm.DB) *GormCardBatchRepository {
	if tx == nil {
		return r
	}
	return &GormCardBatchRepository{db: tx}
}

// Create inserts a batch record.
func (r *GormCardBatchRepository) Create(batch *models.CardBatch) error {
	return r.db.Create(batch).Error
}

// GetByID fetches one batch by id.
func (r *GormCardBatchRepository) GetByID(id uint) (*models.CardBatch, error) {
	var batch models.CardBatch
	if err := r.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// GetByBatchNo fetches one batch by batch number.
func (r *GormCardBatchRepository) GetByBatchNo(batchNo string) (*models.CardBatch, error) {
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return nil, nil
	}
	var batch models.CardBatch
	if err := r.db.Where("batch_no = ?", batchNo).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// List queries batches with pagination.
func (r *GormCardBatchRepository) List(filter CardBatchListFilter) ([]models.CardBatch, int64, error) {
	query := r.db.Model(&models.CardBatch{})
	if filter.AgentID != 0 {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Network != "" {
		query = query.Where("network = ?", filter.Network)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var batches []models.CardBatch
	if err := query.Order("id desc").Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

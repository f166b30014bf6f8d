package repository

import (
	"errors"

	"github.com/bixmobil/vest/internal/models"

	"gorm.io/gorm"
)

// PrintReceiptRepository is the receipt data access interface.
type PrintReceiptRepository interface {
	Create(receipt *models.PrintReceipt) error
	GetByBatchID(batchID uint) (*models.PrintReceipt, error)
	WithTx(tx *gorm.DB) *GormPrintReceiptRepository
}

// GormPrintReceiptRepository is the GORM implementation.
type GormPrintReceiptRepository struct {
	db *gorm.DB
}

// NewPrintReceiptRepository builds a receipt repository.
func NewPrintReceiptRepository(db *gorm.DB) *GormPrintReceiptRepository {
	return &GormPrintReceiptRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPrintReceiptRepository) WithTx(tx *gorm.DB) *GormPrintReceiptRepository {
	if tx == nil {
		return r
	}
	return &GormPrintReceiptRepository{db: tx}
}

// Create inserts a receipt.
func (r *GormPrintReceiptRepository) Create(receipt *models.PrintReceipt) error {
	return r.db.Create(receipt).Error
}

// GetByBatchID fetches the receipt of one batch.
func (r *GormPrintReceiptRepository) GetByBatchID(batchID uint) (*models.PrintReceipt, error) {
	if batchID == 0 {
		return nil, nil
	}
	var receipt models.PrintReceipt
	if err := r.db.Where("batch_id = ?", batchID).First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

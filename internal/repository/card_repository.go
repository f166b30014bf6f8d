package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bixmobil/vest/internal/models"

	"gorm.io/gorm"
)

// CardListFilter filters inventory ledger queries.
type CardListFilter struct {
	AgentID  uint
	Network  string
	Status   string
	BatchID  uint
	Keyword  string // matches serial number or PIN
	Page     int
	PageSize int
}

// CardStats aggregates the inventory ledger by status.
type CardStats struct {
	Total        int64
	Printed      int64
	Sold         int64
	Used         int64
	PrintedValue int64 // summed face value of printed cards, NGN
}

// CardRepository is the inventory ledger data access interface.
type CardRepository interface {
	AppendBatch(items []models.RechargeCard) error
	List(filter CardListFilter) ([]models.RechargeCard, int64, error)
	ListByBatch(batchID uint) ([]models.RechargeCard, error)
	GetByID(id uint) (*models.RechargeCard, error)
	GetBySerial(agentID uint, serial string) (*models.RechargeCard, error)
	UpdateStatus(id uint, from, to string, at time.Time) (int64, error)
	CountBySerials(serials []string) (int64, error)
	Stats(agentID uint) (CardStats, error)
	WithTx(tx *gorm.DB) *GormCardRepository
}

// GormCardRepository is the GORM implementation.
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository builds a card repository.
func NewCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCardRepository) WithTx(tx *gorm.DB) *GormCardRepository {
	if tx == nil {
		return r
	}
	return &GormCardRepository{db: tx}
}

// AppendBatch appends printed cards to the ledger.
func (r *GormCardRepository) AppendBatch(items []models.RechargeCard) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// List queries the ledger with filters and pagination.
func (r *GormCardRepository) List(filter CardListFilter) ([]models.RechargeCard, int64, error) {
	query := r.db.Model(&models.RechargeCard{})
	if filter.AgentID != 0 {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Network != "" {
		query = query.Where("network = ?", filter.Network)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BatchID != 0 {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where("(serial_number "+operator+" ? OR pin "+operator+" ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.RechargeCard
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByBatch returns all cards of one batch.
func (r *GormCardRepository) ListByBatch(batchID uint) ([]models.RechargeCard, error) {
	if batchID == 0 {
		return []models.RechargeCard{}, nil
	}
	var items []models.RechargeCard
	if err := r.db.Where("batch_id = ?", batchID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches one card by id.
func (r *GormCardRepository) GetByID(id uint) (*models.RechargeCard, error) {
	var card models.RechargeCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetBySerial fetches one card by serial number within an agent's stock.
func (r *GormCardRepository) GetBySerial(agentID uint, serial string) (*models.RechargeCard, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, nil
	}
	query := r.db.Model(&models.RechargeCard{}).Where("serial_number = ?", serial)
	if agentID != 0 {
		query = query.Where("agent_id = ?", agentID)
	}
	var card models.RechargeCard
	if err := query.First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// UpdateStatus moves a card from one status to the next. The status
// precondition in the WHERE clause keeps the lifecycle forward-only
// even under concurrent updates.
func (r *GormCardRepository) UpdateStatus(id uint, from, to string, at time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if at.IsZero() {
		at = time.Now()
	}
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case models.CardStatusSold:
		updates["sold_at"] = at
	case models.CardStatusUsed:
		updates["used_at"] = at
	}
	result := r.db.Model(&models.RechargeCard{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CountBySerials counts existing ledger rows with the given serials.
func (r *GormCardRepository) CountBySerials(serials []string) (int64, error) {
	if len(serials) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.RechargeCard{}).
		Where("serial_number IN ?", serials).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates counts per status plus the printed face value.
func (r *GormCardRepository) Stats(agentID uint) (CardStats, error) {
	var stats CardStats

	type statusRow struct {
		Status string
		Total  int64
		Value  int64
	}
	buildQuery := func() *gorm.DB {
		query := r.db.Model(&models.RechargeCard{})
		if agentID != 0 {
			query = query.Where("agent_id = ?", agentID)
		}
		return query
	}

	var rows []statusRow
	if err := buildQuery().
		Select("status, COUNT(*) as total, SUM(denomination) as value").
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}

	for _, row := range rows {
		stats.Total += row.Total
		switch row.Status {
		case models.CardStatusPrinted:
			stats.Printed = row.Total
			stats.PrintedValue = row.Value
		case models.CardStatusSold:
			stats.Sold = row.Total
		case models.CardStatusUsed:
			stats.Used = row.Total
		}
	}
	return stats, nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CardStatusGenerated = "generated"
	CardStatusPrinted   = "printed"
	CardStatusSold      = "sold"
	CardStatusUsed      = "used"
)

// cardStatusTransitions encodes the forward-only card lifecycle.
var cardStatusTransitions = map[string]map[string]bool{
	CardStatusGenerated: {CardStatusPrinted: true},
	CardStatusPrinted:   {CardStatusSold: true},
	CardStatusSold:      {CardStatusUsed: true},
	CardStatusUsed:      {},
}

// CanTransitionCardStatus reports whether a card may move from one
// status directly to another. Regressions and skipped stages are not
// allowed.
func CanTransitionCardStatus(from, to string) bool {
	allowed, ok := cardStatusTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// RechargeCard is the inventory ledger row for one printed voucher.
// Rows are appended at print commit and only move forward through
// printed, sold and used.
type RechargeCard struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // primary key
	BatchID      uint           `gorm:"index;not null" json:"batch_id"`                        // print batch id
	AgentID      uint           `gorm:"index;not null" json:"agent_id"`                        // owning agent id
	Network      string         `gorm:"type:varchar(16);index;not null" json:"network"`        // network id (mtn/glo/airtel/9mobile)
	Denomination int64          `gorm:"index;not null" json:"denomination"`                    // face value in NGN
	PIN          string         `gorm:"type:varchar(16);not null" json:"pin"`                  // 12-digit recharge PIN
	SerialNumber string         `gorm:"type:varchar(24);uniqueIndex;not null" json:"serial_number"` // printed serial number
	Status       string         `gorm:"type:varchar(16);index;not null" json:"status"`         // lifecycle status
	PrintedAt    *time.Time     `gorm:"index" json:"printed_at"`                               // print commit time
	SoldAt       *time.Time     `gorm:"index" json:"sold_at"`                                  // sale time
	UsedAt       *time.Time     `gorm:"index" json:"used_at"`                                  // redemption time
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                               // row creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                               // row update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // soft delete time

	Batch *CardBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"` // batch info
}

// TableName sets the table name
func (RechargeCard) TableName() string {
	return "recharge_cards"
}

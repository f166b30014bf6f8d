package models

import (
	"time"

	"gorm.io/gorm"
)

// CardBatch records one committed print run.
type CardBatch struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                 // primary key
	BatchNo    string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"batch_no"` // batch number
	AgentID    uint           `gorm:"index;not null" json:"agent_id"`                       // owning agent id
	Network    string         `gorm:"type:varchar(16);index;not null" json:"network"`       // network id
	TotalCards int            `gorm:"not null" json:"total_cards"`                          // cards in the batch
	TotalValue Money          `gorm:"type:decimal(20,2);not null" json:"total_value"`       // summed face value
	Commission Money          `gorm:"type:decimal(20,2);not null" json:"commission"`        // commission credited
	PrintedAt  time.Time      `gorm:"index;not null" json:"printed_at"`                     // commit time
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                              // row creation time
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                              // row update time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                       // soft delete time
}

// TableName sets the table name
func (CardBatch) TableName() string {
	return "card_batches"
}

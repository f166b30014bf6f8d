package models

import (
	"time"

	"gorm.io/gorm"
)

// PrintReceipt is the rendered text receipt for a committed batch,
// produced asynchronously after the commit.
type PrintReceipt struct {
	ID        uint           `gorm:"primarykey" json:"id"`                 // primary key
	BatchID   uint           `gorm:"uniqueIndex;not null" json:"batch_id"` // print batch id
	Content   string         `gorm:"type:text;not null" json:"content"`    // printable receipt body
	CreatedAt time.Time      `gorm:"index" json:"created_at"`              // row creation time
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`              // row update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete time
}

// TableName sets the table name
func (PrintReceipt) TableName() string {
	return "print_receipts"
}

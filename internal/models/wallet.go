package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletAccount holds one agent's commission balance.
type WalletAccount struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // primary key
	AgentID   uint           `gorm:"uniqueIndex;not null" json:"agent_id"`         // owning agent id
	Balance   Money          `gorm:"type:decimal(20,2);not null" json:"balance"`   // current balance
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // row creation time
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                      // row update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // soft delete time
}

// TableName sets the table name
func (WalletAccount) TableName() string {
	return "wallet_accounts"
}

// WalletTransaction is one wallet ledger entry. Reference is unique so
// a retried credit lands on the existing row instead of a second one.
type WalletTransaction struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // primary key
	AgentID      uint           `gorm:"index;not null" json:"agent_id"`                        // owning agent id
	Type         string         `gorm:"type:varchar(32);index;not null" json:"type"`           // transaction type
	Direction    string         `gorm:"type:varchar(8);not null" json:"direction"`             // in/out
	Amount       Money          `gorm:"type:decimal(20,2);not null" json:"amount"`             // absolute amount
	BalanceAfter Money          `gorm:"type:decimal(20,2);not null" json:"balance_after"`      // balance after applying
	Reference    string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"reference"` // idempotency reference
	Remark       string         `gorm:"type:varchar(255)" json:"remark"`                       // free-form note
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                               // row creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                               // row update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // soft delete time
}

// TableName sets the table name
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

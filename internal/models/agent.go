package models

import (
	"time"

	"gorm.io/gorm"
)

// Agent is the vending agent profile. Credentials live with the
// external identity provider; this row carries the business data the
// provider hands over on first sight.
type Agent struct {
	ID           uint           `gorm:"primarykey" json:"id"`                          // primary key
	Name         string         `gorm:"type:varchar(120);not null" json:"name"`        // full name
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`             // contact email
	Phone        string         `gorm:"type:varchar(32)" json:"phone"`                 // contact phone
	BusinessName string         `gorm:"type:varchar(160)" json:"business_name"`        // trading name
	Status       string         `gorm:"type:varchar(16);default:'active'" json:"status"` // account status
	LastSeenAt   *time.Time     `json:"last_seen_at"`                                  // last authenticated request
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                       // row creation time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                       // row update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                // soft delete time
}

// TableName sets the table name
func (Agent) TableName() string {
	return "agents"
}

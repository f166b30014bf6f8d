package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionStageSelecting = "selecting"
	SessionStageReview    = "review"
	SessionStagePrinted   = "printed"
	SessionStageDiscarded = "discarded"
)

// sessionStageTransitions encodes the print workflow state machine.
// Back (review to selecting) drops previews; printed and discarded are
// terminal.
var sessionStageTransitions = map[string]map[string]bool{
	SessionStageSelecting: {
		SessionStageReview:    true,
		SessionStageDiscarded: true,
	},
	SessionStageReview: {
		SessionStageSelecting: true,
		SessionStagePrinted:   true,
		SessionStageDiscarded: true,
	},
	SessionStagePrinted:   {},
	SessionStageDiscarded: {},
}

// CanTransitionSessionStage reports whether a session may move from one
// stage directly to another.
func CanTransitionSessionStage(from, to string) bool {
	allowed, ok := sessionStageTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// PrintSession is the staged state of one select/review/print run.
// Generated card previews live only here until print commit appends
// them to the inventory ledger.
type PrintSession struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // primary key
	AgentID     uint           `gorm:"index;not null" json:"agent_id"`                      // owning agent id
	Network     string         `gorm:"type:varchar(16);not null" json:"network"`            // network id
	Stage       string         `gorm:"type:varchar(16);index;not null" json:"stage"`        // workflow stage
	Selection   datatypes.JSON `gorm:"type:json" json:"selection"`                          // denomination -> quantity
	Cards       datatypes.JSON `gorm:"type:json" json:"cards,omitempty"`                    // generated card previews
	BatchNo     string         `gorm:"type:varchar(64);index" json:"batch_no,omitempty"`    // assigned at generation
	CommitToken string         `gorm:"type:varchar(64);index" json:"-"`                     // idempotency token of the commit
	GeneratedAt *time.Time     `json:"generated_at"`                                        // preview generation time
	CommittedAt *time.Time     `json:"committed_at"`                                        // print commit time
	ExpiresAt   time.Time      `gorm:"index;not null" json:"expires_at"`                    // sweep deadline
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // row creation time
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // row update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // soft delete time
}

// TableName sets the table name
func (PrintSession) TableName() string {
	return "print_sessions"
}

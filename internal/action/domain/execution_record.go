package domain

import "time"

// ExecutionStatus represents the outcome of one action execution attempt
type ExecutionStatus string

const (
	StatusExecuted ExecutionStatus = "executed"
	StatusFailed   ExecutionStatus = "failed"
)

// ExecutionRecord is one append-only log entry for an action execution attempt.
// The log is history, not a single mutable status: retrying an action appends
// another row.
type ExecutionRecord struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	SourceType  string          `json:"source_type" gorm:"index:idx_action_source;not null"`
	SourceID    string          `json:"source_id" gorm:"index:idx_action_source;not null"`
	ActionIndex int             `json:"action_index"`
	Status      ExecutionStatus `json:"status"`
	Detail      string          `json:"detail" gorm:"type:text"` // provider message/event id, or error text
	ExecutedAt  time.Time       `json:"executed_at"`
}

// TableName specifies the table name for GORM
func (ExecutionRecord) TableName() string {
	return "action_execution_records"
}

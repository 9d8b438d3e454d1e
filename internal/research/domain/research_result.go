package domain

import "time"

// ToolCall records one search the agent performed, in invocation order
type ToolCall struct {
	Tool  string `json:"tool"`
	Query string `json:"query"`
}

// ResearchResult stores the cached output of one research agent run.
// Presence of a row for (source_type, source_id) means the agent already ran.
type ResearchResult struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	SourceType string     `json:"source_type" gorm:"uniqueIndex:idx_research_source;not null"`
	SourceID   string     `json:"source_id" gorm:"uniqueIndex:idx_research_source;not null"`
	Output     string     `json:"output" gorm:"type:text"`
	ToolCalls  []ToolCall `json:"tool_calls" gorm:"serializer:json"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ResearchResult) TableName() string {
	return "research_results"
}

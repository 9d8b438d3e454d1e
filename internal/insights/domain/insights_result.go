package domain

import "time"

// InputType tags which kind of external communication an insights run covers
type InputType string

const (
	InputEmailReply InputType = "email-reply"
	InputTranscript InputType = "transcript"
)

// IsValid checks if the input type is valid
func (t InputType) IsValid() bool {
	switch t {
	case InputEmailReply, InputTranscript:
		return true
	}
	return false
}

// ActionType discriminates the two proposed follow-up shapes
type ActionType string

const (
	ActionEmail   ActionType = "email"
	ActionMeeting ActionType = "meeting"
)

// ActionStep is a proposed follow-up extracted from a reply or transcript.
// It is identified by its zero-based position in the parent result, not by an
// id of its own.
type ActionStep struct {
	Type        ActionType `json:"type"`
	Description string     `json:"description"`
	Details     string     `json:"details"`

	// email variant
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// meeting variant
	MeetingSummary  string   `json:"meeting_summary,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

// InsightsResult stores the structured extraction for one external communication
type InsightsResult struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	SourceType  string       `json:"source_type" gorm:"uniqueIndex:idx_insights_source;not null"`
	SourceID    string       `json:"source_id" gorm:"uniqueIndex:idx_insights_source;not null"`
	KeyInsights []string     `json:"key_insights" gorm:"serializer:json"`
	Feedback    []string     `json:"feedback" gorm:"serializer:json"`
	ActionSteps []ActionStep `json:"action_steps" gorm:"serializer:json"`
	RawOutput   string       `json:"raw_output" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (InsightsResult) TableName() string {
	return "insights_results"
}

package domain

import "time"

// EmailItem represents an ingested email awaiting or having undergone research
type EmailItem struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Sender     string    `json:"sender"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet" gorm:"type:text"`
	Body       string    `json:"body" gorm:"type:text"`
	ReceivedAt time.Time `json:"received_at"`
	Processed  bool      `json:"processed" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EmailItem) TableName() string {
	return "email_items"
}

func (e *EmailItem) Source() (SourceType, string) {
	return SourceEmail, e.ID
}

package domain

import "time"

// CalendarItem represents an ingested calendar event awaiting or having undergone research
type CalendarItem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Attendees   []string  `json:"attendees" gorm:"serializer:json"`
	Location    string    `json:"location"`
	Processed   bool      `json:"processed" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CalendarItem) TableName() string {
	return "calendar_items"
}

func (c *CalendarItem) Source() (SourceType, string) {
	return SourceCalendar, c.ID
}

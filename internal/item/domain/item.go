package domain

// SourceType tags which collection an item belongs to
type SourceType string

const (
	SourceEmail    SourceType = "email"
	SourceCalendar SourceType = "calendar"
)

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceEmail, SourceCalendar:
		return true
	}
	return false
}

// Item is the sum of the two ingested variants. Every consumer switches on the
// concrete type; there is no untyped "maybe has this field" object.
type Item interface {
	Source() (SourceType, string)
}

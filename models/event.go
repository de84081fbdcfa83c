package models

import "time"

// Event is an imported registration list (one competition).
type Event struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	SourceURL *string   `json:"source_url,omitempty" db:"source_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	CompetitorCount int          `json:"competitor_count" db:"-"`
	Competitors     []Competitor `json:"competitors,omitempty" db:"-"`
}

// DefaultEventTitle is used when a registration page has no readable title.
const DefaultEventTitle = "Competição"

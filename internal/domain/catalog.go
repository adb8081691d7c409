package domain

import "time"

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CatalogEntry is a fully-populated movie record. The resolver never
// returns bare identifiers; the category sub-record is always present.
type CatalogEntry struct {
	MovieID     string    `json:"movieId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReleaseDate string    `json:"releaseDate"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

package domain

import "time"

// ScoredItemRef is one entry of the scoring engine's ranked list. It is
// transient: produced by the scoring client, consumed by the reconciler,
// never persisted.
type ScoredItemRef struct {
	MovieID string  `json:"movieId"`
	Score   float64 `json:"score"`
}

// RecommendedItem is a catalog entry with the engine's score attached.
// RecommendationScore is nil when the item came from the fallback path.
type RecommendedItem struct {
	CatalogEntry
	RecommendationScore *float64 `json:"recommendationScore,omitempty"`
}

type RecommendationResult struct {
	Recommendations []RecommendedItem `json:"recommendations"`
	Total           int               `json:"total"`
	UserID          string            `json:"userId"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

type HealthState string

const (
	StateHealthy   HealthState = "healthy"
	StateUnhealthy HealthState = "unhealthy"
)

type HealthStatus struct {
	State     HealthState `json:"status"`
	CheckedAt time.Time   `json:"checkedAt"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/i211534/movieapp-recommendations/internal/domain"
	"github.com/i211534/movieapp-recommendations/internal/metrics"
	"github.com/i211534/movieapp-recommendations/internal/reconcile"
	"github.com/i211534/movieapp-recommendations/internal/scoring"
)

const (
	// DefaultLimit applies when the caller omits limit entirely; an
	// explicit non-positive limit is rejected instead.
	DefaultLimit = 10
	maxLimit     = 50
)

// Scorer fetches the ranked candidate list from the scoring engine.
type Scorer interface {
	FetchScores(ctx context.Context, userID string, limit int) ([]domain.ScoredItemRef, error)
}

// Catalog is the read-only catalog collaborator.
type Catalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.CatalogEntry, error)
	FindRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, error)
}

// Service orchestrates one recommendation request: score fetch, catalog
// reconciliation, and the popularity fallback when scoring is down.
// Stateless; safe for concurrent use.
type Service struct {
	scorer  Scorer
	catalog Catalog
	log     zerolog.Logger
}

func NewService(scorer Scorer, catalog Catalog, log zerolog.Logger) *Service {
	return &Service{
		scorer:  scorer,
		catalog: catalog,
		log:     log,
	}
}

// GetRecommendations returns a ranked list for userID. Scoring-engine
// problems never surface to the caller: every failure mode short of a
// catalog outage degrades to the most-recent-movies fallback. Total may
// be less than limit when scored ids fail to resolve in the catalog.
func (s *Service) GetRecommendations(ctx context.Context, userID string, limit int) (*domain.RecommendationResult, error) {
	if !domain.ValidID(userID) {
		return nil, fmt.Errorf("user id %q: %w", userID, domain.ErrInvalidUserID)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidLimit)
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	scored, err := s.scorer.FetchScores(ctx, userID, limit)
	if err != nil {
		reason := "scoring_failure"
		var serr *scoring.Error
		if errors.As(err, &serr) {
			reason = string(serr.Kind)
		}
		s.log.Warn().Err(err).Str("user_id", userID).Msg("scoring engine failed, serving fallback")
		return s.fallback(ctx, userID, limit, reason)
	}
	if len(scored) == 0 {
		s.log.Info().Str("user_id", userID).Msg("scoring engine returned no items, serving fallback")
		return s.fallback(ctx, userID, limit, "empty_result")
	}

	seen := make(map[string]struct{}, len(scored))
	ids := make([]string, 0, len(scored))
	for _, ref := range scored {
		if _, dup := seen[ref.MovieID]; dup {
			continue
		}
		seen[ref.MovieID] = struct{}{}
		ids = append(ids, ref.MovieID)
	}

	entries, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		// The catalog is the last line of defense; if it is out there is
		// nothing left to degrade to.
		return nil, fmt.Errorf("resolve scored ids for user %s: %w", userID, err)
	}

	items := reconcile.Merge(scored, entries)
	if dropped := len(ids) - len(items); dropped > 0 {
		// Scored ids that did not resolve usually mean the engine's index
		// has drifted from the catalog.
		metrics.ScoredItemsDropped.Add(float64(dropped))
		s.log.Info().Str("user_id", userID).Int("dropped", dropped).
			Msg("scored ids missing from catalog")
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return result(userID, items), nil
}

func (s *Service) fallback(ctx context.Context, userID string, limit int, reason string) (*domain.RecommendationResult, error) {
	entries, err := s.catalog.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fallback for user %s: %w", userID, err)
	}

	items := reconcile.Recent(entries)
	if len(items) > limit {
		items = items[:limit]
	}

	metrics.Fallbacks.WithLabelValues(reason).Inc()
	return result(userID, items), nil
}

func result(userID string, items []domain.RecommendedItem) *domain.RecommendationResult {
	return &domain.RecommendationResult{
		Recommendations: items,
		Total:           len(items),
		UserID:          userID,
		GeneratedAt:     time.Now().UTC(),
	}
}

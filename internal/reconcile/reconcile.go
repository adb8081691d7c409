// Package reconcile joins the engine's sparse scored ids against
// resolved catalog entries and produces the final display order.
package reconcile

import (
	"sort"

	"github.com/i211534/movieapp-recommendations/internal/domain"
)

// Merge attaches scores to catalog entries and orders the result by
// descending score. Duplicate ids from the engine collapse last write
// wins; duplicate catalog entries collapse to one item per movie id.
// Entries the engine never scored (catalog drift) sort after all scored
// ones.
func Merge(scored []domain.ScoredItemRef, entries []domain.CatalogEntry) []domain.RecommendedItem {
	scores := make(map[string]float64, len(scored))
	for _, ref := range scored {
		scores[ref.MovieID] = ref.Score
	}

	seen := make(map[string]struct{}, len(entries))
	items := make([]domain.RecommendedItem, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.MovieID]; dup {
			continue
		}
		seen[entry.MovieID] = struct{}{}

		item := domain.RecommendedItem{CatalogEntry: entry}
		if score, ok := scores[entry.MovieID]; ok {
			s := score
			item.RecommendationScore = &s
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		si, iOK := items[i].RecommendationScore, items[i].RecommendationScore != nil
		sj, jOK := items[j].RecommendationScore, items[j].RecommendationScore != nil
		switch {
		case iOK && jOK:
			return *si > *sj
		case iOK:
			return true
		default:
			return false
		}
	})

	return items
}

// Recent produces the fallback ordering: newest catalog entries first,
// no scores attached.
func Recent(entries []domain.CatalogEntry) []domain.RecommendedItem {
	seen := make(map[string]struct{}, len(entries))
	items := make([]domain.RecommendedItem, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.MovieID]; dup {
			continue
		}
		seen[entry.MovieID] = struct{}{}
		items = append(items, domain.RecommendedItem{CatalogEntry: entry})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items
}

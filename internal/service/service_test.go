package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i211534/movieapp-recommendations/internal/domain"
	"github.com/i211534/movieapp-recommendations/internal/scoring"
)

type fakeScorer struct {
	scored    []domain.ScoredItemRef
	err       error
	gotUserID string
	gotLimit  int
	calls     int
}

func (f *fakeScorer) FetchScores(ctx context.Context, userID string, limit int) ([]domain.ScoredItemRef, error) {
	f.calls++
	f.gotUserID = userID
	f.gotLimit = limit
	return f.scored, f.err
}

type fakeCatalog struct {
	byIDs      []domain.CatalogEntry
	byIDsErr   error
	recent     []domain.CatalogEntry
	recentErr  error
	gotIDs     []string
	recentCall int
}

func (f *fakeCatalog) FindByIDs(ctx context.Context, ids []string) ([]domain.CatalogEntry, error) {
	f.gotIDs = ids
	return f.byIDs, f.byIDsErr
}

func (f *fakeCatalog) FindRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	f.recentCall++
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func entry(id string, createdAt time.Time) domain.CatalogEntry {
	return domain.CatalogEntry{
		MovieID:   id,
		Title:     "Title " + id,
		Category:  domain.Category{ID: "cat-1", Name: "Drama"},
		CreatedAt: createdAt,
	}
}

func newService(scorer Scorer, cat Catalog) *Service {
	return NewService(scorer, cat, zerolog.Nop())
}

func TestScoredPath(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{
		{MovieID: "a", Score: 0.9},
		{MovieID: "b", Score: 0.4},
	}}
	cat := &fakeCatalog{byIDs: []domain.CatalogEntry{entry("b", now), entry("a", now)}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "user_1", 10)

	require.NoError(t, err)
	assert.Equal(t, "user_1", result.UserID)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "a", result.Recommendations[0].MovieID)
	assert.Equal(t, 0.9, *result.Recommendations[0].RecommendationScore)
	assert.Equal(t, "b", result.Recommendations[1].MovieID)
	assert.Equal(t, 0.4, *result.Recommendations[1].RecommendationScore)
	assert.Equal(t, 0, cat.recentCall)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestTotalMatchesLength(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{{MovieID: "a", Score: 0.5}}}
	cat := &fakeCatalog{byIDs: []domain.CatalogEntry{entry("a", now)}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	require.NoError(t, err)
	assert.Equal(t, len(result.Recommendations), result.Total)
}

func TestScoringFailureFallsBack(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{err: &scoring.Error{Kind: scoring.KindTimedOut, Msg: "budget exceeded"}}
	cat := &fakeCatalog{recent: []domain.CatalogEntry{
		entry("new", now), entry("old", now.AddDate(0, 0, -10)),
	}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, "new", result.Recommendations[0].MovieID)
	for _, item := range result.Recommendations {
		assert.Nil(t, item.RecommendationScore)
	}
}

func TestEmptyScoreListBehavesLikeFailure(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{scored: nil}
	cat := &fakeCatalog{recent: []domain.CatalogEntry{entry("a", now)}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	require.NoError(t, err)
	assert.Equal(t, 1, cat.recentCall)
	assert.Equal(t, 1, result.Total)
	assert.Nil(t, result.Recommendations[0].RecommendationScore)
}

func TestUnresolvableScoredIDsIsNotFallback(t *testing.T) {
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{{MovieID: "x", Score: 0.9}}}
	cat := &fakeCatalog{byIDs: nil, recent: []domain.CatalogEntry{entry("a", time.Now())}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 0, cat.recentCall)
}

func TestFallbackHonorsLimit(t *testing.T) {
	now := time.Now()
	cat := &fakeCatalog{}
	for i := 0; i < 20; i++ {
		cat.recent = append(cat.recent, entry(
			// Oldest first so the newest-first ordering is observable.
			"movie_"+string(rune('a'+i)), now.AddDate(0, 0, -20+i)))
	}
	scorer := &fakeScorer{err: &scoring.Error{Kind: scoring.KindUnreachable, Msg: "refused"}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	for i := 1; i < len(result.Recommendations); i++ {
		prev := result.Recommendations[i-1].CreatedAt
		assert.False(t, result.Recommendations[i].CreatedAt.After(prev))
	}
}

func TestNoPaddingWhenEngineReturnsFewerThanLimit(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{
		{MovieID: "a", Score: 0.9},
		{MovieID: "b", Score: 0.4},
	}}
	cat := &fakeCatalog{
		byIDs:  []domain.CatalogEntry{entry("a", now), entry("b", now)},
		recent: []domain.CatalogEntry{entry("c", now)},
	}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 50)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, cat.recentCall)
}

func TestInvalidUserID(t *testing.T) {
	for _, userID := range []string{"", "has space", "semi;colon", "\x00"} {
		_, err := newService(&fakeScorer{}, &fakeCatalog{}).
			GetRecommendations(context.Background(), userID, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidUserID, "userID=%q", userID)
	}
}

func TestInvalidUserIDSkipsScoringAndFallback(t *testing.T) {
	scorer := &fakeScorer{}
	cat := &fakeCatalog{}

	_, err := newService(scorer, cat).GetRecommendations(context.Background(), "bad id", 10)

	require.ErrorIs(t, err, domain.ErrInvalidUserID)
	assert.Equal(t, 0, scorer.calls)
	assert.Equal(t, 0, cat.recentCall)
}

func TestNonPositiveLimitRejected(t *testing.T) {
	for _, limit := range []int{0, -5} {
		_, err := newService(&fakeScorer{}, &fakeCatalog{}).
			GetRecommendations(context.Background(), "u", limit)
		assert.ErrorIs(t, err, domain.ErrInvalidLimit, "limit=%d", limit)
	}
}

func TestOversizedLimitClamped(t *testing.T) {
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{{MovieID: "a", Score: 0.1}}}
	cat := &fakeCatalog{byIDs: []domain.CatalogEntry{entry("a", time.Now())}}

	_, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 500)

	require.NoError(t, err)
	assert.Equal(t, 50, scorer.gotLimit)
}

func TestCatalogOutageOnScoredPathPropagates(t *testing.T) {
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{{MovieID: "a", Score: 0.5}}}
	cat := &fakeCatalog{byIDsErr: domain.ErrCatalogUnavailable}

	_, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestCatalogOutageOnFallbackPropagates(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("engine exploded")}
	cat := &fakeCatalog{recentErr: domain.ErrCatalogUnavailable}

	_, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestDuplicateEngineIDsDeduplicated(t *testing.T) {
	now := time.Now()
	scorer := &fakeScorer{scored: []domain.ScoredItemRef{
		{MovieID: "a", Score: 0.2},
		{MovieID: "a", Score: 0.8},
	}}
	cat := &fakeCatalog{byIDs: []domain.CatalogEntry{entry("a", now)}}

	result, err := newService(scorer, cat).GetRecommendations(context.Background(), "u", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, cat.gotIDs)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 0.8, *result.Recommendations[0].RecommendationScore)
}

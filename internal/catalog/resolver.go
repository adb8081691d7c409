package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/i211534/movieapp-recommendations/internal/domain"
)

// querier is the part of pgxpool.Pool the resolver uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// recentCache holds the user-independent fallback entries; satisfied by
// cache.Cache.
type recentCache interface {
	GetRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, bool, error)
	SetRecent(ctx context.Context, limit int, entries []domain.CatalogEntry) error
}

// Resolver is the read-only view over the movie catalog. It always
// returns fully-populated entries with the category joined in; bare ids
// never leave this package.
type Resolver struct {
	db    querier
	cache recentCache
	log   zerolog.Logger
}

func NewResolver(db querier, cache recentCache, log zerolog.Logger) *Resolver {
	return &Resolver{db: db, cache: cache, log: log}
}

const entryColumns = `m.id, m.title, m.description, m.release_date, m.image_url,
		c.id, c.name, c.description, m.created_at, m.updated_at`

// FindByIDs resolves a batch of movie ids in one query. Syntactically
// invalid ids are dropped up front: the scoring engine may hand back ids
// that were never valid or no longer exist, and neither case is an error
// here. Order of the result is unspecified.
func (r *Resolver) FindByIDs(ctx context.Context, ids []string) ([]domain.CatalogEntry, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if domain.ValidID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+`
		FROM movies m
		JOIN categories c ON m.category_id = c.id
		WHERE m.id = ANY($1)`, valid,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies by ids: %w: %w", err, domain.ErrCatalogUnavailable)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindRecent returns up to limit of the most recently added movies,
// newest first. This backs the fallback path; the result is
// user-independent, so it is cached in Redis with a short TTL. Cache
// problems are logged and ignored, the database stays authoritative.
func (r *Resolver) FindRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if r.cache != nil {
		cached, found, err := r.cache.GetRecent(ctx, limit)
		if err != nil {
			r.log.Warn().Err(err).Msg("fallback cache get failed")
		}
		if found {
			return cached, nil
		}
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+`
		FROM movies m
		JOIN categories c ON m.category_id = c.id
		ORDER BY m.created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent movies: %w: %w", err, domain.ErrCatalogUnavailable)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if cacheErr := r.cache.SetRecent(ctx, limit, entries); cacheErr != nil {
			r.log.Warn().Err(cacheErr).Msg("fallback cache set failed")
		}
	}

	return entries, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows rowScanner) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	for rows.Next() {
		var (
			e        domain.CatalogEntry
			imageURL *string
			catDesc  *string
		)
		err := rows.Scan(&e.MovieID, &e.Title, &e.Description, &e.ReleaseDate, &imageURL,
			&e.Category.ID, &e.Category.Name, &catDesc, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w: %w", err, domain.ErrCatalogUnavailable)
		}
		if imageURL != nil {
			e.ImageURL = *imageURL
		}
		if catDesc != nil {
			e.Category.Description = *catDesc
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over catalog entries: %w: %w", err, domain.ErrCatalogUnavailable)
	}
	return entries, nil
}

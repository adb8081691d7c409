package seeds

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Setup populates categories and movies for local runs. Non-destructive:
// the caller skips it when the catalog already has data.
func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	log.Println("[seed] inserting categories")
	if err := seedCategories(ctx, pool); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	log.Println("[seed] inserting movies")
	if err := seedMovies(ctx, pool, rng, 50); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	log.Println("[seed] seeding complete")
	return nil
}

var categories = []struct {
	id, name, description string
}{
	{"cat-action", "Action", "High-octane movies"},
	{"cat-drama", "Drama", "Character-driven stories"},
	{"cat-comedy", "Comedy", "Movies meant to make you laugh"},
	{"cat-thriller", "Thriller", "Tension and suspense"},
	{"cat-scifi", "Sci-Fi", "Science fiction and the future"},
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) error {
	rows := []string{}
	args := []any{}

	for i, c := range categories {
		base := i * 3
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, c.id, c.name, c.description)
	}

	query := "INSERT INTO categories (id, name, description) VALUES " +
		strings.Join(rows, ", ") + " ON CONFLICT (id) DO NOTHING"

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedMovies(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	titles := map[string][]string{
		"cat-action": {
			"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight",
			"Gladiator", "Top Gun: Maverick", "The Raid", "Mission: Impossible",
			"Casino Royale", "The Avengers",
		},
		"cat-drama": {
			"The Shawshank Redemption", "Forrest Gump", "The Godfather",
			"Schindler's List", "A Beautiful Mind", "12 Angry Men",
			"Parasite", "Moonlight", "Whiplash", "The Green Mile",
		},
		"cat-comedy": {
			"Superbad", "The Hangover", "Bridesmaids", "Step Brothers",
			"Anchorman", "Mean Girls", "Borat", "Hot Fuzz",
			"Groundhog Day", "The Grand Budapest Hotel",
		},
		"cat-thriller": {
			"Se7en", "Gone Girl", "Zodiac", "Prisoners",
			"Sicario", "No Country for Old Men", "Nightcrawler",
			"Shutter Island", "The Silence of the Lambs", "Oldboy",
		},
		"cat-scifi": {
			"Blade Runner 2049", "Interstellar", "The Matrix", "Arrival",
			"Dune", "Ex Machina", "Alien", "Inception",
			"Edge of Tomorrow", "2001: A Space Odyssey",
		},
	}

	rows := []string{}
	args := []any{}

	for i := range n {
		cat := categories[i%len(categories)]
		titleList := titles[cat.id]
		title := titleList[(i/len(categories))%len(titleList)]

		if i >= len(categories)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/(len(categories)*len(titleList))+1)
		}

		movieID := fmt.Sprintf("movie_%d", i+1)
		description := fmt.Sprintf("A %s movie with an exciting plot and great characters.",
			strings.ToLower(cat.name))
		releaseDate := fmt.Sprintf("20%02d-%02d-01", rng.Intn(25), rng.Intn(12)+1)
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(730))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, movieID, title, description, releaseDate, cat.id, createdAt, createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO movies (id, title, description, release_date, category_id, created_at, updated_at) VALUES " +
		strings.Join(rows, ", ") + " ON CONFLICT (id) DO NOTHING"

	_, err := pool.Exec(ctx, query, args...)
	return err
}

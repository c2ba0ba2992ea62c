package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a couple of
// already-published demo posts so the dashboard is not empty on first run.
// Production deployments never call this.
func Seed(db *sql.DB, userID string) error {
	// Check if any posts exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	demos := []struct {
		description string
		tags        string
	}{
		{
			description: "Shipped our first release today. The hardest part was not the code, it was deciding what to leave out.\n\nWhat did you cut from your last launch? #shipping #product",
			tags:        `["shipping","product"]`,
		},
		{
			description: "Hot take: most scheduling tools solve a problem you would not have with a smaller backlog. #productivity",
			tags:        `["productivity"]`,
		},
	}

	for _, demo := range demos {
		_, err := db.Exec(`
			INSERT INTO posts (user_id, description, tags, published_at)
			VALUES ($1, $2, $3::jsonb, NOW())
		`, userID, demo.description, demo.tags)
		if err != nil {
			return fmt.Errorf("seed insert post: %w", err)
		}
	}

	slog.Info("database seeded with demo posts", "user_id", userID, "count", len(demos))
	return nil
}

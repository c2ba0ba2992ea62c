// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package poststore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// Postgres persists posts in the embedded backend's own database. It keeps
// the same contract as the hosted API client: server-assigned UUIDs, partial
// updates, schedule removal as a distinct operation.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed store on an open connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const postColumns = `id, description, image_url, schedule_time, published_at, created_at, tags`

func (s *Postgres) Save(ctx context.Context, req SaveRequest) (*ServerPost, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("save post: %w: empty description", ErrValidationRejected)
	}

	tags, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("save post: marshal tags: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, description, image_url, schedule_time, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns+`
	`, req.UserID, req.Description, nullString(req.ImageURL), req.ScheduleTime, tags)

	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

func (s *Postgres) List(ctx context.Context, userID string) ([]ServerPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []ServerPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, id, userID string, patch UpdatePatch) (*ServerPost, error) {
	var tags any
	if patch.Tags != nil {
		b, err := json.Marshal(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("update post: marshal tags: %w", err)
		}
		tags = b
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			description   = COALESCE($3, description),
			image_url     = COALESCE($4, image_url),
			schedule_time = COALESCE($5, schedule_time),
			published_at  = COALESCE($6, published_at),
			tags          = COALESCE($7, tags)
		WHERE id = $1 AND user_id = $2
		RETURNING `+postColumns+`
	`, id, userID, patch.Description, patch.ImageURL, patch.ScheduleTime, patch.PublishedAt, tags)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update post: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *Postgres) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete post: %w", ErrNotFound)
	}
	return nil
}

func (s *Postgres) RemoveSchedule(ctx context.Context, id, userID string) (*ServerPost, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET schedule_time = NULL
		WHERE id = $1 AND user_id = $2
		RETURNING `+postColumns+`
	`, id, userID)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("remove schedule: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("remove schedule: %w", err)
	}
	return post, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*ServerPost, error) {
	var (
		post     ServerPost
		imageURL sql.NullString
		tags     []byte
	)
	err := row.Scan(&post.ID, &post.Description, &imageURL,
		&post.ScheduleTime, &post.PublishedAt, &post.CreatedAt, &tags)
	if err != nil {
		return nil, err
	}
	post.ImageURL = imageURL.String
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &post.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return &post, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

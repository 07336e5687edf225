package posts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tsn/internal/dbx"
	"github.com/dmitrijs2005/tsn/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, owner string, post models.Post) error {
	query :=
		`INSERT INTO posts (owner, sender, body, posted_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, owner, post.Sender, post.Text, post.Timestamp); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Recent(ctx context.Context, owner string, limit int) ([]models.Post, error) {
	query :=
		`SELECT sender, body, posted_at FROM (
		   SELECT id, sender, body, posted_at FROM posts
		   WHERE owner = $1
		   ORDER BY id DESC
		   LIMIT $2
		 ) recent
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

func (r *PostgresRepository) All(ctx context.Context, owner string) ([]models.Post, error) {
	query :=
		`SELECT sender, body, posted_at FROM posts
		 WHERE owner = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	var result []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.Sender, &p.Text, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

package follows

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tsn/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, follower string) ([]string, error) {
	query :=
		`SELECT followee FROM follows
		 WHERE follower = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, follower)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var followee string
		if err := rows.Scan(&followee); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, followee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Append(ctx context.Context, follower, followee string) error {
	return insertEdge(ctx, r.db, follower, followee)
}

func (r *PostgresRepository) Replace(ctx context.Context, follower string, followees []string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`DELETE FROM follows
			 WHERE follower = $1
			 `
		if _, err := tx.ExecContext(ctx, query, follower); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		for _, followee := range followees {
			if err := insertEdge(ctx, tx, follower, followee); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertEdge(ctx context.Context, db dbx.DBTX, follower, followee string) error {
	query :=
		`INSERT INTO follows (follower, followee)
		 VALUES ($1, $2)
		 `

	if _, err := db.ExecContext(ctx, query, follower, followee); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Package posts persists each user's timeline: an append-only log of every
// post routed to that user, kept beyond the live mailbox window.
package posts

import (
	"context"

	"github.com/dmitrijs2005/tsn/internal/server/models"
)

type Repository interface {
	// Append adds post to the end of owner's timeline log.
	Append(ctx context.Context, owner string, post models.Post) error
	// Recent returns at most limit of the newest records, oldest first.
	Recent(ctx context.Context, owner string, limit int) ([]models.Post, error)
	// All returns owner's full log, oldest first.
	All(ctx context.Context, owner string) ([]models.Post, error)
}

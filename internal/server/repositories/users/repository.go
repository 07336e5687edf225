// Package users persists the roster: the ordered list of every username that
// ever registered.
package users

import (
	"context"

	"github.com/dmitrijs2005/tsn/internal/server/models"
)

type Repository interface {
	// Create appends user to the roster.
	Create(ctx context.Context, user *models.User) error
	// List returns the roster in registration order.
	List(ctx context.Context) ([]*models.User, error)
}

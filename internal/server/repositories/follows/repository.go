// Package follows persists each user's followed set. Follow appends one edge;
// Unfollow rewrites the whole set, so the stored form is always a snapshot of
// the current set in insertion order.
package follows

import "context"

type Repository interface {
	// Load returns follower's followed usernames in insertion order. A user
	// with no stored set yields an empty slice.
	Load(ctx context.Context, follower string) ([]string, error)
	// Append adds followee to the end of follower's set.
	Append(ctx context.Context, follower, followee string) error
	// Replace stores followees as follower's complete set.
	Replace(ctx context.Context, follower string, followees []string) error
}

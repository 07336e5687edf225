package services

import (
	"context"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/dmitrijs2005/tsn/internal/server/social"
)

// Fanout routes p to every follower of p.Sender, the sender's own seed entry
// included, and returns how many mailboxes received it. Each record is
// appended to the follower's timeline log before it is queued; a failed
// append is logged and the post is queued in memory only.
func (s *DirectoryService) Fanout(ctx context.Context, p models.Post) int {
	// a closing session must not abort writes already under way
	pctx := context.WithoutCancel(ctx)

	s.loadPending(pctx)

	followers := s.registry.Followers(p.Sender)
	for _, f := range followers {
		owner := f.Name()
		err := f.Mailbox().Deliver(p, func() error {
			return s.repomanager.Posts().Append(pctx, owner, p)
		})
		if err != nil {
			s.logger.Warn(ctx, "timeline log unavailable, delivering in memory only",
				"owner", owner, "sender", p.Sender, "error", err)
		}
	}
	return len(followers)
}

// loadPending reads back the follow sets of users restored at startup that
// nothing has touched yet, so their edges count for fan-out. Each user is
// loaded at most once.
func (s *DirectoryService) loadPending(ctx context.Context) {
	s.registry.Each(func(u *social.User) {
		if u.Loaded() {
			return
		}
		if err := u.EnsureLoaded(s.loadFollowed(ctx, u.Name())); err != nil {
			s.logger.Warn(ctx, "follow snapshot unavailable, user skipped for fan-out",
				"username", u.Name(), "error", err)
		}
	})
}

// AttachSession claims owner's streaming session, reloading an inactive
// user's state first.
func (s *DirectoryService) AttachSession(ctx context.Context, owner string) (*social.User, error) {
	u, ok := s.registry.Get(owner)
	if !ok {
		return nil, common.ErrNotRegistered
	}
	if err := u.BeginSession(s.loader(ctx, u)); err != nil {
		return nil, err
	}
	return u, nil
}

// DetachSession ends u's session and marks it inactive.
func (s *DirectoryService) DetachSession(ctx context.Context, u *social.User) {
	u.EndSession()
	s.logger.Info(ctx, "user deactivated", "username", u.Name())
}

// Timeline returns owner's complete durable log.
func (s *DirectoryService) Timeline(ctx context.Context, owner string) ([]models.Post, error) {
	if _, ok := s.registry.Get(owner); !ok {
		return nil, common.ErrNotRegistered
	}
	return s.repomanager.Posts().All(ctx, owner)
}

// Shutdown closes every mailbox so waiting dispatchers return.
func (s *DirectoryService) Shutdown() {
	s.registry.Each(func(u *social.User) { u.Mailbox().Close() })
}

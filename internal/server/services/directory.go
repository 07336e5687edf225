// Package services implements the request/response side of the server:
// registration, roster listing, follow graph edits, post fan-out and startup
// recovery. Transports call into DirectoryService and map its sentinel errors.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/logging"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tsn/internal/server/social"
)

// RegisterOutcome tells a fresh account from a returning one.
type RegisterOutcome int

const (
	Created RegisterOutcome = iota
	Reactivated
)

func (o RegisterOutcome) String() string {
	if o == Reactivated {
		return "reactivated"
	}
	return "created"
}

type DirectoryService struct {
	registry    *social.Registry
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDirectoryService(r *social.Registry, m repomanager.RepositoryManager, l logging.Logger) *DirectoryService {
	if l == nil {
		l = logging.Nop()
	}
	return &DirectoryService{
		registry:    r,
		repomanager: m,
		logger:      l.With("module", "directory"),
	}
}

func persistErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrPersistence, what, err)
}

// Register creates username or reactivates it after a closed session.
func (s *DirectoryService) Register(ctx context.Context, username string) (RegisterOutcome, error) {
	if !common.ValidUsername(username) {
		return Created, common.ErrInvalidUsername
	}

	// snapshot first: the roster never names a user without one
	u, created, err := s.registry.Create(username, func() error {
		if err := s.repomanager.Follows().Replace(ctx, username, []string{username}); err != nil {
			return persistErr("follow snapshot", err)
		}
		if err := s.repomanager.Users().Create(ctx, &models.User{UserName: username}); err != nil {
			return persistErr("roster", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "register failed", "username", username, "error", err)
		return Created, err
	}
	if created {
		s.logger.Info(ctx, "user created", "username", username)
		return Created, nil
	}

	if err := u.Activate(s.loader(ctx, u)); err != nil {
		return Reactivated, err
	}
	s.logger.Info(ctx, "user reactivated", "username", username, "queued", u.Mailbox().Len())
	return Reactivated, nil
}

// loader reads back u's follow snapshot and the newest timeline records.
func (s *DirectoryService) loader(ctx context.Context, u *social.User) social.Loader {
	return func() ([]string, []models.Post, error) {
		followed, err := s.loadFollowed(ctx, u.Name())()
		if err != nil {
			return nil, nil, err
		}
		recent, err := s.repomanager.Posts().Recent(ctx, u.Name(), u.Mailbox().Capacity())
		if err != nil {
			s.logger.Error(ctx, "timeline reload failed", "username", u.Name(), "error", err)
			return nil, nil, persistErr("timeline", err)
		}
		return followed, recent, nil
	}
}

func (s *DirectoryService) loadFollowed(ctx context.Context, username string) func() ([]string, error) {
	return func() ([]string, error) {
		followed, err := s.repomanager.Follows().Load(ctx, username)
		if err != nil {
			s.logger.Error(ctx, "follow snapshot reload failed", "username", username, "error", err)
			return nil, persistErr("follow snapshot", err)
		}
		// a lost snapshot still follows itself
		if !slices.Contains(followed, username) {
			followed = append([]string{username}, followed...)
		}
		return followed, nil
	}
}

// ListUsers returns the roster and requester's followed set, both in
// insertion order. The followed set includes the requester's own seed entry.
func (s *DirectoryService) ListUsers(ctx context.Context, requester string) (all, followed []string, err error) {
	u, ok := s.registry.Get(requester)
	if !ok {
		return nil, nil, common.ErrNotRegistered
	}
	if err := u.EnsureLoaded(s.loadFollowed(ctx, requester)); err != nil {
		return nil, nil, err
	}
	return s.registry.Names(), u.Followed(), nil
}

// Follow adds the edge requester -> target.
func (s *DirectoryService) Follow(ctx context.Context, requester, target string) error {
	if requester == target {
		return common.ErrSelfFollow
	}
	u, ok := s.registry.Get(requester)
	if !ok {
		return common.ErrRequesterUnknown
	}
	if _, ok := s.registry.Get(target); !ok {
		return common.ErrTargetUnknown
	}
	if err := u.EnsureLoaded(s.loadFollowed(ctx, requester)); err != nil {
		return err
	}

	err := u.AddFollow(target, func() error {
		if err := s.repomanager.Follows().Append(ctx, requester, target); err != nil {
			return persistErr("follow snapshot", err)
		}
		return nil
	})
	if err != nil {
		if !isConflict(err) {
			s.logger.Error(ctx, "follow failed", "username", requester, "target", target, "error", err)
		}
		return err
	}
	s.logger.Info(ctx, "followed", "username", requester, "target", target)
	return nil
}

// Unfollow removes the edge requester -> target and stores the full
// remaining set.
func (s *DirectoryService) Unfollow(ctx context.Context, requester, target string) error {
	if requester == target {
		return common.ErrSelfUnfollow
	}
	u, ok := s.registry.Get(requester)
	if !ok {
		return common.ErrRequesterUnknown
	}
	if err := u.EnsureLoaded(s.loadFollowed(ctx, requester)); err != nil {
		return err
	}

	err := u.RemoveFollow(target, func(remaining []string) error {
		if err := s.repomanager.Follows().Replace(ctx, requester, remaining); err != nil {
			return persistErr("follow snapshot", err)
		}
		return nil
	})
	if err != nil {
		if !isConflict(err) {
			s.logger.Error(ctx, "unfollow failed", "username", requester, "target", target, "error", err)
		}
		return err
	}
	s.logger.Info(ctx, "unfollowed", "username", requester, "target", target)
	return nil
}

func isConflict(err error) bool {
	return errors.Is(err, common.ErrAlreadyFollowing) || errors.Is(err, common.ErrNotFollowing)
}

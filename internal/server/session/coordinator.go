// Package session runs one timeline stream per connected user.
//
// The first inbound frame names the owner. After that two tasks share the
// stream under an errgroup: ingest reads the owner's posts and fans them out,
// dispatch drains the owner's mailbox onto the stream. Whichever stops first
// cancels the other and both are joined before the owner is marked inactive.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/logging"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/dmitrijs2005/tsn/internal/server/social"
	"golang.org/x/sync/errgroup"
)

// Stream is the transport side of a session. Recv and Send are called from
// different goroutines, never concurrently with themselves. Recv must return
// once Context is done or the peer goes away.
type Stream interface {
	Context() context.Context
	Recv() (models.Post, error)
	Send(models.Post) error
}

type Directory interface {
	AttachSession(ctx context.Context, owner string) (*social.User, error)
	DetachSession(ctx context.Context, u *social.User)
	Fanout(ctx context.Context, p models.Post) int
}

// Archiver receives a user's name after each closed session.
type Archiver interface {
	Archive(ctx context.Context, owner string) error
}

var errPeerClosed = errors.New("peer closed stream")

const archiveTimeout = 30 * time.Second

type Option func(*Coordinator)

func WithArchiver(a Archiver) Option {
	return func(c *Coordinator) { c.archiver = a }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

type Coordinator struct {
	dir      Directory
	archiver Archiver
	logger   logging.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewCoordinator(dir Directory, logger logging.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Coordinator{
		dir:      dir,
		logger:   logger.With("module", "session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns owner's live session.
func (c *Coordinator) Lookup(owner string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[owner]
	return s, ok
}

// Count returns the number of live sessions.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

type frame struct {
	post models.Post
	err  error
}

// receive pumps stream.Recv into a channel until Recv fails or stop closes.
func receive(stream Stream, stop <-chan struct{}) <-chan frame {
	out := make(chan frame)
	go func() {
		defer close(out)
		for {
			p, err := stream.Recv()
			select {
			case out <- frame{post: p, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// Serve runs a session on stream until the peer leaves, a task fails or the
// stream context ends. A peer that leaves is not an error.
func (c *Coordinator) Serve(stream Stream) error {
	ctx := stream.Context()
	s := &Session{ID: newID(ctx)}
	s.set(Connecting)
	log := c.logger.With("session_id", s.ID)

	stop := make(chan struct{})
	defer close(stop)
	frames := receive(stream, stop)

	// Connecting
	var first frame
	select {
	case f, ok := <-frames:
		if !ok {
			s.set(Closed)
			return nil
		}
		first = f
	case <-ctx.Done():
		s.set(Closed)
		return nil
	}
	if first.err != nil {
		s.set(Closed)
		log.Debug(ctx, "stream closed before identification", "error", first.err)
		return transportResult(first.err)
	}
	if first.post.Sender == "" {
		s.set(Closed)
		return common.ErrMalformedFrame
	}

	s.Owner = first.post.Sender
	log = log.With("username", s.Owner)

	u, err := c.dir.AttachSession(ctx, s.Owner)
	if err != nil {
		s.set(Closed)
		log.Info(ctx, "session refused", "error", err)
		return err
	}

	s.set(Active)
	c.track(s)
	log.Info(ctx, "session active")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.drain()
		return c.ingest(gctx, s.Owner, frames)
	})
	g.Go(func() error {
		defer s.drain()
		return c.dispatch(gctx, u, stream)
	})
	err = g.Wait()

	c.dir.DetachSession(ctx, u)
	c.untrack(s)
	s.set(Closed)

	result := transportResult(err)
	if result != nil {
		log.Warn(ctx, "session closed", "error", result)
	} else {
		log.Info(ctx, "session closed")
	}

	c.archive(ctx, log, s.Owner)
	return result
}

// ingest fans out every post the owner sends.
func (c *Coordinator) ingest(ctx context.Context, owner string, frames <-chan frame) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				return errPeerClosed
			}
			if f.err != nil {
				return f.err
			}

			p := f.post
			if p.Text == "" || len(p.Text) > common.MaxPostLength || (p.Sender != "" && p.Sender != owner) {
				return common.ErrMalformedFrame
			}
			p.Sender = owner
			if p.Timestamp.IsZero() {
				p.Timestamp = c.now()
			}
			c.dir.Fanout(ctx, p)
		}
	}
}

// dispatch writes the owner's mailbox to the stream, skipping the owner's
// own posts.
func (c *Coordinator) dispatch(ctx context.Context, u *social.User, stream Stream) error {
	for {
		p, err := u.Mailbox().Pop(ctx)
		if err != nil {
			if errors.Is(err, common.ErrMailboxClosed) {
				return err
			}
			return nil
		}
		if p.Sender == u.Name() {
			continue
		}
		if err := stream.Send(p); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}
}

func (c *Coordinator) archive(ctx context.Context, log logging.Logger, owner string) {
	if c.archiver == nil {
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := c.archiver.Archive(actx, owner); err != nil {
		log.Warn(ctx, "timeline archive failed", "error", err)
	}
}

func (c *Coordinator) track(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.Owner] = s
}

func (c *Coordinator) untrack(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessions[s.Owner] == s {
		delete(c.sessions, s.Owner)
	}
}

// transportResult hides the ways a stream ends normally.
func transportResult(err error) error {
	switch {
	case err == nil,
		errors.Is(err, io.EOF),
		errors.Is(err, errPeerClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, common.ErrMailboxClosed):
		return nil
	}
	return err
}

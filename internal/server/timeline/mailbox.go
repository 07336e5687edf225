// Package timeline implements the per-user live mailbox: a bounded FIFO of
// posts awaiting delivery to the owner's session.
//
// The queue contents and the availability signal sit behind one mutex, so the
// number of items a consumer can drain always equals the length of the list.
// Producers never block: a full mailbox drops its oldest entry.
package timeline

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/models"
)

type Mailbox struct {
	mu       sync.Mutex
	items    []models.Post
	capacity int
	closed   bool

	// ready holds at most one pending wakeup for the consumer.
	ready chan struct{}
	done  chan struct{}
}

// New returns an empty mailbox holding at most capacity posts. A non-positive
// capacity falls back to common.MailboxCapacity.
func New(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = common.MailboxCapacity
	}
	return &Mailbox{
		items:    make([]models.Post, 0, capacity),
		capacity: capacity,
		ready:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Deliver records p durably through persist and then appends it in memory,
// both under the mailbox lock so the log and the live queue see posts in the
// same order. When persist fails the post is still queued and the error is
// returned for the caller to report. persist may be nil.
//
// On a closed mailbox Deliver still persists but queues nothing.
func (m *Mailbox) Deliver(p models.Post, persist func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if persist != nil {
		err = persist()
	}

	if m.closed {
		return err
	}

	if len(m.items) >= m.capacity {
		// drop oldest
		copy(m.items, m.items[1:])
		m.items = m.items[:len(m.items)-1]
	}
	m.items = append(m.items, p)
	m.signal()

	return err
}

func (m *Mailbox) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest post, waiting until one is available.
// It returns ctx.Err() when ctx is done and common.ErrMailboxClosed once the
// mailbox is closed and empty.
func (m *Mailbox) Pop(ctx context.Context) (models.Post, error) {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			p := m.items[0]
			m.items[0] = models.Post{}
			m.items = m.items[1:]
			m.mu.Unlock()
			return p, nil
		}
		closed, done := m.closed, m.done
		m.mu.Unlock()

		if closed {
			return models.Post{}, common.ErrMailboxClosed
		}

		select {
		case <-m.ready:
		case <-done:
		case <-ctx.Done():
			return models.Post{}, ctx.Err()
		}
	}
}

// Len reports how many posts are available to Pop.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Capacity returns the maximum number of live posts.
func (m *Mailbox) Capacity() int {
	return m.capacity
}

// Snapshot returns a copy of the queued posts, oldest first.
func (m *Mailbox) Snapshot() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Post, len(m.items))
	copy(out, m.items)
	return out
}

// Reset replaces the queued posts with the newest capacity entries of posts
// and reopens a closed mailbox.
func (m *Mailbox) Reset(posts []models.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(posts) > m.capacity {
		posts = posts[len(posts)-m.capacity:]
	}
	m.items = append(make([]models.Post, 0, m.capacity), posts...)

	if m.closed {
		m.closed = false
		m.done = make(chan struct{})
	}
	if len(m.items) > 0 {
		m.signal()
	}
}

// Close wakes any waiting consumer; later Pops on an empty mailbox return
// common.ErrMailboxClosed. Closing twice is a no-op.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}

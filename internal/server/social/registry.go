// Package social holds the live user roster and follow graph.
//
// A Registry maps usernames to *User records and is their only owner. The map
// lock guards roster structure only; each record carries its own lock, so
// follow edits on unrelated users never contend.
package social

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/tsn/internal/common"
)

type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
	// pending holds names whose creation is being persisted; the channel is
	// closed when that attempt finishes.
	pending  map[string]chan struct{}
	capacity int
}

// NewRegistry returns an empty registry whose mailboxes hold capacity posts.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = common.MailboxCapacity
	}
	return &Registry{
		users:    make(map[string]*User),
		pending:  make(map[string]chan struct{}),
		capacity: capacity,
	}
}

func (r *Registry) Get(name string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[name]
	return u, ok
}

// Create adds a new active user following itself. persist runs before the
// record becomes visible, outside the roster lock; concurrent creates of the
// same name wait for it. On error nothing is added. When the name is already
// taken the existing record is returned with created == false.
func (r *Registry) Create(name string, persist func() error) (u *User, created bool, err error) {
	for {
		r.mu.Lock()
		if existing, ok := r.users[name]; ok {
			r.mu.Unlock()
			return existing, false, nil
		}
		wait, busy := r.pending[name]
		if !busy {
			break
		}
		r.mu.Unlock()
		<-wait
	}
	done := make(chan struct{})
	r.pending[name] = done
	r.mu.Unlock()

	if persist != nil {
		err = persist()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, name)
	close(done)
	if err != nil {
		return nil, false, err
	}

	u = newUser(name, r.capacity)
	u.followed = []string{name}
	u.active = true
	u.loaded = true

	r.users[name] = u
	r.order = append(r.order, name)
	return u, true, nil
}

// Restore adds inactive users whose state has not been loaded yet. Names
// already present are skipped.
func (r *Registry) Restore(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, ok := r.users[name]; ok {
			continue
		}
		r.users[name] = newUser(name, r.capacity)
		r.order = append(r.order, name)
	}
}

// Names returns every username in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Followers returns the users whose followed set contains name, in
// registration order. A user's seed self entry makes it its own follower.
func (r *Registry) Followers(name string) []*User {
	var out []*User
	for _, u := range r.snapshot() {
		if u.Follows(name) {
			out = append(out, u)
		}
	}
	return out
}

// Each calls fn for every user in registration order.
func (r *Registry) Each(fn func(*User)) {
	for _, u := range r.snapshot() {
		fn(u)
	}
}

func (r *Registry) snapshot() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*User, 0, len(r.order))
	for _, n := range r.order {
		all = append(all, r.users[n])
	}
	return all
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

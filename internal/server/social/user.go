package social

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/dmitrijs2005/tsn/internal/server/timeline"
)

// User is the live record of one account. The registry owns it; sessions and
// services hold the pointer and go through its methods.
type User struct {
	name    string
	mailbox *timeline.Mailbox

	mu        sync.RWMutex
	followed  []string
	active    bool
	inSession bool
	// loaded is false for users restored at startup until their follow set
	// has been read back from storage.
	loaded bool
}

func newUser(name string, capacity int) *User {
	return &User{
		name:    name,
		mailbox: timeline.New(capacity),
	}
}

func (u *User) Name() string { return u.name }

func (u *User) Mailbox() *timeline.Mailbox { return u.mailbox }

// Followed returns a copy of the followed set in insertion order.
func (u *User) Followed() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.followed)
}

// Follows reports whether name is in the followed set.
func (u *User) Follows(name string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Contains(u.followed, name)
}

func (u *User) Active() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.active
}

func (u *User) InSession() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.inSession
}

// Loaded reports whether the followed set reflects storage.
func (u *User) Loaded() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.loaded
}

// EnsureLoaded reads the followed set through load if the user was restored
// without it. It is a no-op for loaded users.
func (u *User) EnsureLoaded(load func() ([]string, error)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.loaded || load == nil {
		return nil
	}
	followed, err := load()
	if err != nil {
		return err
	}
	u.followed = followed
	u.loaded = true
	return nil
}

// AddFollow appends target to the followed set after persist succeeds.
func (u *User) AddFollow(target string, persist func() error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if slices.Contains(u.followed, target) {
		return common.ErrAlreadyFollowing
	}
	if persist != nil {
		if err := persist(); err != nil {
			return err
		}
	}
	u.followed = append(u.followed, target)
	return nil
}

// RemoveFollow drops target from the followed set after persist has stored the
// remaining set.
func (u *User) RemoveFollow(target string, persist func(remaining []string) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	i := slices.Index(u.followed, target)
	if i < 0 {
		return common.ErrNotFollowing
	}
	remaining := slices.Delete(slices.Clone(u.followed), i, i+1)
	if persist != nil {
		if err := persist(slices.Clone(remaining)); err != nil {
			return err
		}
	}
	u.followed = remaining
	return nil
}

// Loader returns the persisted follow set and the most recent timeline
// records of a user.
type Loader func() (followed []string, recent []models.Post, err error)

// Activate marks an inactive user active, refreshing the followed set and the
// live mailbox from load. It returns common.ErrAlreadyActive when the user is
// already active. A failed load leaves the user inactive.
func (u *User) Activate(load Loader) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.active {
		return common.ErrAlreadyActive
	}
	return u.activateLocked(load)
}

func (u *User) activateLocked(load Loader) error {
	if load != nil {
		followed, recent, err := load()
		if err != nil {
			return err
		}
		u.followed = followed
		u.mailbox.Reset(recent)
		u.loaded = true
	}
	u.active = true
	return nil
}

// BeginSession claims the user's single streaming session. An inactive user
// is activated through load first.
func (u *User) BeginSession(load Loader) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.inSession {
		return common.ErrAlreadyActive
	}
	if !u.active {
		if err := u.activateLocked(load); err != nil {
			return err
		}
	}
	u.inSession = true
	return nil
}

// EndSession releases the session and marks the user inactive.
func (u *User) EndSession() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inSession = false
	u.active = false
}

// Deactivate marks the user inactive unless a session is attached.
func (u *User) Deactivate() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inSession {
		return false
	}
	u.active = false
	return true
}

package social

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateSeedsSelfFollow(t *testing.T) {
	r := NewRegistry(0)

	u, created, err := r.Create("alice", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, u.Active())
	assert.Equal(t, []string{"alice"}, u.Followed())
	assert.Equal(t, common.MailboxCapacity, u.Mailbox().Capacity())

	again, created, err := r.Create("alice", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, u, again)
}

func TestRegistry_CreatePersistErrorAddsNothing(t *testing.T) {
	r := NewRegistry(0)
	boom := errors.New("disk")

	_, _, err := r.Create("alice", func() error { return boom })
	require.ErrorIs(t, err, boom)

	_, ok := r.Get("alice")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CreatePersistDoesNotBlockOthers(t *testing.T) {
	r := NewRegistry(0)
	_, _, err := r.Create("bob", nil)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	slow := func() error {
		calls.Add(1)
		close(entered)
		<-release
		return nil
	}

	first := make(chan *User, 1)
	go func() {
		u, _, _ := r.Create("alice", slow)
		first <- u
	}()
	<-entered

	// lookups and other names proceed while alice is being persisted
	_, ok := r.Get("bob")
	assert.True(t, ok)
	assert.Equal(t, []string{"bob"}, r.Names())
	_, created, err := r.Create("carol", nil)
	require.NoError(t, err)
	assert.True(t, created)

	second := make(chan bool, 1)
	go func() {
		_, created, _ := r.Create("alice", slow)
		second <- created
	}()
	select {
	case <-second:
		t.Fatal("duplicate create did not wait")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	u := <-first
	require.NotNil(t, u)
	assert.False(t, <-second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{"bob", "carol", "alice"}, r.Names())
}

func TestRegistry_CreateRetriesAfterFailedAttempt(t *testing.T) {
	r := NewRegistry(0)

	_, _, err := r.Create("alice", func() error { return errors.New("disk") })
	require.Error(t, err)

	_, created, err := r.Create("alice", func() error { return nil })
	require.NoError(t, err)
	assert.True(t, created)
}

func TestRegistry_RestoreIsInactiveAndOrdered(t *testing.T) {
	r := NewRegistry(5)
	_, _, err := r.Create("carol", nil)
	require.NoError(t, err)

	r.Restore([]string{"alice", "bob", "carol"})

	assert.Equal(t, []string{"carol", "alice", "bob"}, r.Names())
	a, ok := r.Get("alice")
	require.True(t, ok)
	assert.False(t, a.Active())
	assert.Empty(t, a.Followed())
}

func TestRegistry_Followers(t *testing.T) {
	r := NewRegistry(0)
	alice, _, _ := r.Create("alice", nil)
	bob, _, _ := r.Create("bob", nil)
	_, _, _ = r.Create("carol", nil)

	require.NoError(t, bob.AddFollow("alice", nil))

	got := r.Followers("alice")
	require.Len(t, got, 2)
	assert.Same(t, alice, got[0])
	assert.Same(t, bob, got[1])
}

func TestRegistry_EachVisitsAll(t *testing.T) {
	r := NewRegistry(0)
	r.Restore([]string{"a", "b", "c"})

	var seen []string
	r.Each(func(u *User) { seen = append(seen, u.Name()) })
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestUser_FollowUnfollow(t *testing.T) {
	r := NewRegistry(0)
	u, _, _ := r.Create("alice", nil)

	require.NoError(t, u.AddFollow("bob", nil))
	require.ErrorIs(t, u.AddFollow("bob", nil), common.ErrAlreadyFollowing)
	assert.True(t, u.Follows("bob"))

	var stored []string
	require.NoError(t, u.RemoveFollow("bob", func(rem []string) error {
		stored = rem
		return nil
	}))
	assert.Equal(t, []string{"alice"}, stored)
	require.ErrorIs(t, u.RemoveFollow("bob", nil), common.ErrNotFollowing)
}

func TestUser_PersistFailureLeavesSetUnchanged(t *testing.T) {
	r := NewRegistry(0)
	u, _, _ := r.Create("alice", nil)
	boom := errors.New("disk")

	require.ErrorIs(t, u.AddFollow("bob", func() error { return boom }), boom)
	assert.Equal(t, []string{"alice"}, u.Followed())

	require.NoError(t, u.AddFollow("bob", nil))
	require.ErrorIs(t, u.RemoveFollow("bob", func([]string) error { return boom }), boom)
	assert.Equal(t, []string{"alice", "bob"}, u.Followed())
}

func TestUser_ActivateReloads(t *testing.T) {
	r := NewRegistry(0)
	r.Restore([]string{"bob"})
	u, _ := r.Get("bob")

	err := u.Activate(func() ([]string, []models.Post, error) {
		return []string{"bob", "alice"}, []models.Post{{Sender: "alice", Text: "hello"}}, nil
	})
	require.NoError(t, err)
	assert.True(t, u.Active())
	assert.Equal(t, []string{"bob", "alice"}, u.Followed())
	assert.Equal(t, 1, u.Mailbox().Len())

	require.ErrorIs(t, u.Activate(nil), common.ErrAlreadyActive)
}

func TestUser_ActivateLoadErrorStaysInactive(t *testing.T) {
	r := NewRegistry(0)
	r.Restore([]string{"bob"})
	u, _ := r.Get("bob")
	boom := errors.New("read")

	err := u.Activate(func() ([]string, []models.Post, error) { return nil, nil, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, u.Active())
}

func TestUser_SessionLifecycle(t *testing.T) {
	r := NewRegistry(0)
	u, _, _ := r.Create("alice", nil)

	require.NoError(t, u.BeginSession(nil))
	assert.True(t, u.InSession())
	require.ErrorIs(t, u.BeginSession(nil), common.ErrAlreadyActive)
	assert.False(t, u.Deactivate())

	u.EndSession()
	assert.False(t, u.Active())
	assert.False(t, u.InSession())

	loads := 0
	require.NoError(t, u.BeginSession(func() ([]string, []models.Post, error) {
		loads++
		return []string{"alice"}, nil, nil
	}))
	assert.Equal(t, 1, loads)
	assert.False(t, u.Deactivate())
}

func TestUser_ConcurrentFollowsOnDistinctUsers(t *testing.T) {
	r := NewRegistry(0)
	const n = 20
	for i := 0; i < n; i++ {
		_, _, err := r.Create(fmt.Sprintf("u%d", i), nil)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		u, _ := r.Get(fmt.Sprintf("u%d", i))
		wg.Add(1)
		go func(u *User) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				target := fmt.Sprintf("u%d", j)
				if target == u.Name() {
					continue
				}
				assert.NoError(t, u.AddFollow(target, nil))
			}
		}(u)
	}
	wg.Wait()

	assert.Len(t, r.Followers("u0"), n)
}

func TestUser_EnsureLoadedOnce(t *testing.T) {
	r := NewRegistry(0)
	r.Restore([]string{"bob"})
	u, _ := r.Get("bob")

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"bob", "alice"}, nil
	}
	require.NoError(t, u.EnsureLoaded(load))
	require.NoError(t, u.EnsureLoaded(load))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"bob", "alice"}, u.Followed())
	assert.False(t, u.Active())

	created, _, _ := r.Create("carol", nil)
	require.NoError(t, created.EnsureLoaded(func() ([]string, error) {
		t.Fatal("created users are already loaded")
		return nil, nil
	}))
}

// Package usercache mirrors the record store's user list in memory.
package usercache

import (
	"context"
	"log/slog"
	"sync"

	"user_manager/internal/model"
	"user_manager/internal/validation"
)

// UserStore is the user resource the cache needs from the data access layer.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)
	Delete(ctx context.Context, id int64) error
}

// Snapshot is a copy of the cache contents.
type Snapshot struct {
	Users   []model.User
	Loading bool
	Err     string
}

// Cache holds the user list. It only changes after the record store confirms
// a mutation, and always with the record the store returned.
//
// Overlapping mutations are not serialized; the last response to arrive wins.
type Cache struct {
	store UserStore
	log   *slog.Logger

	mu       sync.Mutex
	users    []model.User
	inFlight int
	errMsg   string
	subs     map[int]func(Snapshot)
	nextSub  int
}

// New creates an empty Cache
func New(store UserStore, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log,
		users: []model.User{},
		subs:  make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current contents.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Users returns a copy of the user list.
func (c *Cache) Users() []model.User {
	return c.Snapshot().Users
}

// Counts tallies the cached users by status.
type Counts struct {
	Total    int
	Active   int
	Pending  int
	Inactive int
}

// Counts returns the per-status totals of the cached list.
func (c *Cache) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := Counts{Total: len(c.users)}
	for _, u := range c.users {
		switch u.Status {
		case model.UserStatusActive:
			counts.Active++
		case model.UserStatusPending:
			counts.Pending++
		case model.UserStatusInactive:
			counts.Inactive++
		}
	}
	return counts
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (c *Cache) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Refresh replaces the list with the store's. On failure the list is emptied.
func (c *Cache) Refresh(ctx context.Context) error {
	c.start()
	users, err := c.store.List(ctx)
	if err != nil {
		c.finish(err, func() { c.users = []model.User{} })
		return err
	}
	c.finish(nil, func() {
		if users == nil {
			users = []model.User{}
		}
		c.users = users
	})
	return nil
}

// Create adds a user. An empty status defaults to pending.
func (c *Cache) Create(ctx context.Context, draft model.CreateUserRequest) (model.User, error) {
	if draft.Status == "" {
		draft.Status = model.UserStatusPending
	}
	if err := validation.Struct(draft); err != nil {
		return model.User{}, err
	}

	c.start()
	created, err := c.store.Create(ctx, draft)
	if err != nil {
		c.finish(err, nil)
		return model.User{}, err
	}
	c.finish(nil, func() { c.users = append(c.users, created) })
	return created, nil
}

// Update changes the provided fields of user id.
func (c *Cache) Update(ctx context.Context, id int64, patch model.UpdateUserRequest) (model.User, error) {
	if err := validation.Struct(patch); err != nil {
		return model.User{}, err
	}

	c.start()
	updated, err := c.store.Update(ctx, id, patch)
	if err != nil {
		c.finish(err, nil)
		return model.User{}, err
	}
	c.finish(nil, func() {
		for i := range c.users {
			if c.users[i].ID == id {
				c.users[i] = updated
				return
			}
		}
		c.log.Debug("updated user is not cached", "id", id)
	})
	return updated, nil
}

// Delete removes user id. The list is untouched when the store refuses.
func (c *Cache) Delete(ctx context.Context, id int64) error {
	c.start()
	if err := c.store.Delete(ctx, id); err != nil {
		c.finish(err, nil)
		return err
	}
	c.finish(nil, func() {
		kept := make([]model.User, 0, len(c.users))
		for _, u := range c.users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		c.users = kept
	})
	return nil
}

// ClearError drops the stored error message.
func (c *Cache) ClearError() {
	c.mutate(func() { c.errMsg = "" })
}

func (c *Cache) start() {
	c.mutate(func() {
		c.inFlight++
		c.errMsg = ""
	})
}

func (c *Cache) finish(err error, apply func()) {
	c.mutate(func() {
		c.inFlight--
		if err != nil {
			c.errMsg = err.Error()
			c.log.Debug("user cache operation failed", "error", err)
		}
		if apply != nil {
			apply()
		}
	})
}

func (c *Cache) mutate(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func (c *Cache) snapshotLocked() Snapshot {
	users := make([]model.User, len(c.users))
	copy(users, c.users)
	return Snapshot{Users: users, Loading: c.inFlight > 0, Err: c.errMsg}
}

package usercache

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"user_manager/internal/api"
	"user_manager/internal/handler"
	"user_manager/internal/logger"
	"user_manager/internal/model"
	"user_manager/internal/repository"
	"user_manager/internal/service"
	"user_manager/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	users  []model.User
	nextID int64
	calls  int
	err    error
}

func (f *fakeStore) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.User(nil), f.users...), nil
}

func (f *fakeStore) Create(_ context.Context, req model.CreateUserRequest) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.User{}, f.err
	}
	f.nextID++
	u := model.User{ID: f.nextID, FirstName: req.FirstName, LastName: req.LastName,
		Email: req.Email, PhoneNumber: req.PhoneNumber, Status: req.Status}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.User{}, f.err
	}
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		if req.FirstName != nil {
			f.users[i].FirstName = *req.FirstName
		}
		if req.Status != nil {
			f.users[i].Status = *req.Status
		}
		return f.users[i], nil
	}
	return model.User{}, &api.Error{Message: "Failed to update user"}
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return &api.Error{Message: "Failed to delete user"}
}

func ann() model.CreateUserRequest {
	return model.CreateUserRequest{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", PhoneNumber: "12345"}
}

func TestCache_RefreshEmptyStoreTogglesLoading(t *testing.T) {
	c := New(&fakeStore{}, logger.Discard())

	var loading []bool
	cancel := c.Subscribe(func(s Snapshot) { loading = append(loading, s.Loading) })
	defer cancel()

	require.NoError(t, c.Refresh(context.Background()))
	snap := c.Snapshot()
	assert.NotNil(t, snap.Users)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Err)
	assert.Equal(t, []bool{true, false}, loading)
	assert.False(t, snap.Loading)
}

func TestCache_RefreshFailureEmptiesList(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())
	ctx := context.Background()
	_, err := c.Create(ctx, ann())
	require.NoError(t, err)

	store.err = &api.Error{Message: "Failed to fetch users"}
	err = c.Refresh(ctx)
	require.Error(t, err)
	snap := c.Snapshot()
	assert.Empty(t, snap.Users)
	assert.Equal(t, "Failed to fetch users", snap.Err)
	assert.False(t, snap.Loading)
}

func TestCache_CreateAppendsServerRecord(t *testing.T) {
	store := &fakeStore{nextID: 41}
	c := New(store, logger.Discard())

	created, err := c.Create(context.Background(), ann())
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, model.UserStatusPending, created.Status)

	users := c.Users()
	require.Len(t, users, 1)
	assert.Equal(t, int64(42), users[0].ID)
}

func TestCache_CreateValidationSkipsStore(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())

	draft := ann()
	draft.PhoneNumber = "12ab"
	_, err := c.Create(context.Background(), draft)
	assert.ErrorIs(t, err, validation.ErrValidation)
	assert.Equal(t, 0, store.calls)
	assert.Empty(t, c.Users())
}

func TestCache_UpdateThenRefresh(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())
	ctx := context.Background()

	created, err := c.Create(ctx, ann())
	require.NoError(t, err)

	active := model.UserStatusActive
	_, err = c.Update(ctx, created.ID, model.UpdateUserRequest{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, c.Users()[0].Status)

	require.NoError(t, c.Refresh(ctx))
	first := c.Users()
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, first, c.Users())
	assert.Equal(t, model.UserStatusActive, first[0].Status)
}

func TestCache_UpdateRejectsInvalidPatch(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())

	bad := model.UserStatus("archived")
	_, err := c.Update(context.Background(), 1, model.UpdateUserRequest{Status: &bad})
	require.ErrorIs(t, err, validation.ErrValidation)
	assert.Equal(t, 0, store.calls)
}

func TestCache_DeleteMissingLeavesList(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())
	ctx := context.Background()
	_, err := c.Create(ctx, ann())
	require.NoError(t, err)

	err = c.Delete(ctx, 99)
	require.Error(t, err)
	assert.Len(t, c.Users(), 1)
	assert.Equal(t, "Failed to delete user", c.Snapshot().Err)

	require.NoError(t, c.Delete(ctx, 1))
	assert.Empty(t, c.Users())
	assert.Empty(t, c.Snapshot().Err)
}

func TestCache_SnapshotIsCopy(t *testing.T) {
	c := New(&fakeStore{}, logger.Discard())
	_, err := c.Create(context.Background(), ann())
	require.NoError(t, err)

	users := c.Users()
	users[0].FirstName = "Mallory"
	assert.Equal(t, "Ann", c.Users()[0].FirstName)
}

func TestCache_AgainstRecordStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "db.json"), model.CollectionUsers)
	require.NoError(t, err)
	svc := service.NewRecordService(repo, service.DefaultCollections())
	router := gin.New()
	handler.NewRecordHandler(svc, logger.Discard()).RegisterRecordRoutes(router, model.CollectionUsers)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := api.NewClient(srv.URL, api.WithLogger(logger.Discard()))
	require.NoError(t, err)
	c := New(api.NewUserClient(client), logger.Discard())
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	assert.Empty(t, c.Users())

	_, err = c.Create(ctx, ann())
	require.NoError(t, err)
	assert.Equal(t, []model.User{{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "a@x.com",
		PhoneNumber: "12345", Status: model.UserStatusPending}}, c.Users())

	err = c.Delete(ctx, 7)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Len(t, c.Users(), 1)

	require.NoError(t, c.Refresh(ctx))
	assert.Len(t, c.Users(), 1)
}

func TestCache_CreateFailureKeepsList(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())
	ctx := context.Background()
	_, err := c.Create(ctx, ann())
	require.NoError(t, err)

	store.err = &api.Error{Message: "Failed to create user"}
	draft := ann()
	draft.Email = "b@x.com"
	_, err = c.Create(ctx, draft)
	require.Error(t, err)
	assert.Equal(t, "Failed to create user", err.Error())

	snap := c.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "a@x.com", snap.Users[0].Email)
	assert.Equal(t, "Failed to create user", snap.Err)
	assert.False(t, snap.Loading)
}

func TestCache_UpdateFailureKeepsList(t *testing.T) {
	store := &fakeStore{}
	c := New(store, logger.Discard())
	ctx := context.Background()
	created, err := c.Create(ctx, ann())
	require.NoError(t, err)

	store.err = &api.Error{Message: "Failed to update user"}
	name := "Annabel"
	_, err = c.Update(ctx, created.ID, model.UpdateUserRequest{FirstName: &name})
	require.Error(t, err)
	assert.Equal(t, "Failed to update user", err.Error())

	snap := c.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Ann", snap.Users[0].FirstName)
	assert.Equal(t, "Failed to update user", snap.Err)
	assert.False(t, snap.Loading)
}

type blockingStore struct {
	*fakeStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeStore.Create(ctx, req)
}

func TestCache_OverlappingCallsStayLoading(t *testing.T) {
	store := &blockingStore{
		fakeStore: &fakeStore{},
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	c := New(store, logger.Discard())
	ctx := context.Background()

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := c.Create(ctx, ann())
			done <- err
		}()
	}
	<-store.entered
	<-store.entered
	assert.True(t, c.Snapshot().Loading)

	store.release <- struct{}{}
	require.NoError(t, <-done)
	snap := c.Snapshot()
	assert.True(t, snap.Loading)
	assert.Len(t, snap.Users, 1)

	store.release <- struct{}{}
	require.NoError(t, <-done)
	snap = c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Users, 2)
}

func TestCache_Counts(t *testing.T) {
	c := New(&fakeStore{}, logger.Discard())
	ctx := context.Background()
	assert.Equal(t, Counts{}, c.Counts())

	for _, status := range []model.UserStatus{model.UserStatusActive, model.UserStatusActive, model.UserStatusInactive, ""} {
		draft := ann()
		draft.Status = status
		_, err := c.Create(ctx, draft)
		require.NoError(t, err)
	}
	assert.Equal(t, Counts{Total: 4, Active: 2, Pending: 1, Inactive: 1}, c.Counts())
}

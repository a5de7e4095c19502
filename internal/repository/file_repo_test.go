package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_manager/internal/model"
)

func newTestFileRepo(t *testing.T) (RecordRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	repo, err := NewFileRepository(path, model.CollectionCustomers, model.CollectionUsers)
	require.NoError(t, err)
	return repo, path
}

func TestFileRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, model.CollectionUsers, model.Record{"firstName": "Ann"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, model.CollectionUsers, model.Record{"firstName": "Bob"})
	require.NoError(t, err)

	id1, _ := first.ID()
	id2, _ := second.ID()
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	all, err := repo.FindAll(ctx, model.CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0]["firstName"])
}

func TestFileRepository_PersistsAcrossReload(t *testing.T) {
	repo, path := newTestFileRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.CollectionCustomers, model.Record{"email": "a@x.com"})
	require.NoError(t, err)

	reloaded, err := NewFileRepository(path, model.CollectionCustomers)
	require.NoError(t, err)
	rec, err := reloaded.FindByID(ctx, model.CollectionCustomers, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "a@x.com", rec["email"])

	next, err := reloaded.Create(ctx, model.CollectionCustomers, model.Record{"email": "b@x.com"})
	require.NoError(t, err)
	id, _ := next.ID()
	assert.Equal(t, int64(2), id)
}

func TestFileRepository_LoadsSeededDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	seed := `{"customers":[{"id":3,"email":"seed@x.com","password":"password123"}],"posts":[{"id":1}]}`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	repo, err := NewFileRepository(path, model.CollectionCustomers, model.CollectionUsers)
	require.NoError(t, err)

	rec, err := repo.FindByID(context.Background(), model.CollectionCustomers, 3)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "password123", rec["password"])

	users, err := repo.FindAll(context.Background(), model.CollectionUsers)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)
}

func TestFileRepository_PatchAndDelete(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.CollectionUsers, model.Record{"firstName": "Ann", "status": "pending"})
	require.NoError(t, err)

	updated, err := repo.Patch(ctx, model.CollectionUsers, 1, model.Record{"status": "active", "id": 50})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "active", updated["status"])
	assert.Equal(t, "Ann", updated["firstName"])
	id, _ := updated.ID()
	assert.Equal(t, int64(1), id)

	missing, err := repo.Patch(ctx, model.CollectionUsers, 99, model.Record{"status": "active"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.Delete(ctx, model.CollectionUsers, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, model.CollectionUsers, 1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileRepository_ReturnsCopies(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CollectionUsers, model.Record{"firstName": "Ann"})
	require.NoError(t, err)
	created["firstName"] = "mutated"

	rec, err := repo.FindByID(ctx, model.CollectionUsers, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", rec["firstName"])
}

func TestNewFileRepository_RequiresPath(t *testing.T) {
	_, err := NewFileRepository("  ")
	assert.Error(t, err)
}

package follows

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/tsn/internal/filex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_AppendThenReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(t.TempDir(), filex.JSONCodec{})

	got, err := repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repo.Append(ctx, "bob", "bob"))
	require.NoError(t, repo.Append(ctx, "bob", "alice"))
	require.NoError(t, repo.Append(ctx, "bob", "carol"))

	got, err = repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice", "carol"}, got)

	require.NoError(t, repo.Replace(ctx, "bob", []string{"bob", "carol"}))

	got, err = repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, got)
}

func TestFileRepository_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(t.TempDir(), filex.JSONCodec{})

	require.NoError(t, repo.Append(ctx, "alice", "alice"))
	require.NoError(t, repo.Append(ctx, "bob", "bob"))

	got, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got)
}

func TestFileRepository_AppendFailsWithoutDir(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing"), filex.JSONCodec{})
	require.Error(t, repo.Append(context.Background(), "bob", "alice"))
	require.Error(t, repo.Replace(context.Background(), "bob", []string{"bob"}))
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePinned(fullName, owner, name string) model.PinnedRepo {
	return model.PinnedRepo{
		FullName: fullName,
		Owner:    owner,
		Name:     name,
		PinnedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestPinnedRepoRepo_Add(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)
	ctx := context.Background()

	err := repo.Add(ctx, makePinned("octocat/hello-world", "octocat", "hello-world"))
	require.NoError(t, err)

	got, err := repo.GetByFullName(ctx, "octocat/hello-world")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "octocat/hello-world", got.FullName)
	assert.Equal(t, "octocat", got.Owner)
	assert.Equal(t, "hello-world", got.Name)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), got.PinnedAt.UTC())
}

func TestPinnedRepoRepo_Add_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)
	ctx := context.Background()

	r := makePinned("octocat/hello-world", "octocat", "hello-world")
	require.NoError(t, repo.Add(ctx, r))

	err := repo.Add(ctx, r)
	assert.ErrorIs(t, err, driven.ErrRepoAlreadyExists)
}

func TestPinnedRepoRepo_Remove(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, makePinned("octocat/hello-world", "octocat", "hello-world")))
	require.NoError(t, repo.Remove(ctx, "octocat/hello-world"))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPinnedRepoRepo_Remove_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)

	err := repo.Remove(context.Background(), "nonexistent/repo")
	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
}

func TestPinnedRepoRepo_GetByFullName_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)

	got, err := repo.GetByFullName(context.Background(), "nonexistent/repo")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPinnedRepoRepo_ListAll_Ordered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPinnedRepoRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, makePinned("zeta/app", "zeta", "app")))
	require.NoError(t, repo.Add(ctx, makePinned("alpha/lib", "alpha", "lib")))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha/lib", all[0].FullName)
	assert.Equal(t, "zeta/app", all[1].FullName)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2026-01-15T10:00:00Z"},
		{in: "2026-01-15 10:00:00"},
		{in: "2026-01-15T10:00:00.123456789Z"},
		{in: "yesterday", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := parseTime(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

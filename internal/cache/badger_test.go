package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorucioclea/foundry/internal/domain"
)

func newTestCache(t *testing.T) *ResolutionCache {
	t.Helper()

	c, err := NewResolutionCache(Options{InMemory: true, TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestResolutionCache_StoreAndResolve(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	oid := domain.Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")
	require.NoError(t, c.Store(ctx, "https://github.com/org/repo", "refs/heads/main", oid))

	got, err := c.Resolve(ctx, "https://github.com/org/repo", "refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	// Equivalent URL spelling hits the same entry
	got, err = c.Resolve(ctx, "git@github.com:org/repo.git", "refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestResolutionCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Resolve(context.Background(), "https://github.com/org/repo", "refs/heads/main")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestResolutionCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	oid := domain.Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")
	require.NoError(t, c.Store(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0", oid))
	require.NoError(t, c.Delete(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0"))

	_, err := c.Resolve(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestResolutionCache_ClearAndSize(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	oid := domain.Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")
	require.NoError(t, c.Store(ctx, "https://github.com/org/a", "HEAD", oid))
	require.NoError(t, c.Store(ctx, "https://github.com/org/b", "HEAD", oid))
	assert.Equal(t, int64(2), c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestResolutionCache_MutableEntryExpires(t *testing.T) {
	c, err := NewResolutionCache(Options{InMemory: true, TTL: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx := context.Background()
	oid := domain.Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")

	// Branch resolution expires, tag resolution does not
	require.NoError(t, c.Store(ctx, "https://github.com/org/repo", "refs/heads/main", oid))
	require.NoError(t, c.Store(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0", oid))

	time.Sleep(100 * time.Millisecond)

	_, err = c.Resolve(ctx, "https://github.com/org/repo", "refs/heads/main")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	got, err := c.Resolve(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestResolutionCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	oid := domain.Oid("4f5b227a2e0e4d2b6b3f6a7c8d9e0f1a2b3c4d5e")

	c, err := NewResolutionCache(Options{Directory: dir})
	require.NoError(t, err)
	require.NoError(t, c.Store(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0", oid))
	require.NoError(t, c.Close())

	c, err = NewResolutionCache(Options{Directory: dir})
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Resolve(ctx, "https://github.com/org/repo", "refs/tags/v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

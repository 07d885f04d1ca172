package repo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/tests/helpers"
)

func requireGitUploadPack(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not available")
	}
}

func TestRepository_CheckoutToPersistentDest(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)

	dest := t.TempDir()
	r, err := NewBuilder(fixture.Dir).
		Branch("feature").
		Dest(dest).
		Build()
	require.NoError(t, err)

	require.NoError(t, r.Checkout(context.Background()))

	_, err = os.Stat(filepath.Join(dest, "contracts", "Extra.sol"))
	require.NoError(t, err)

	// The destination is caller-owned and survives Close
	require.NoError(t, r.Close())
	_, err = os.Stat(filepath.Join(dest, "contracts", "Extra.sol"))
	assert.NoError(t, err)
}

func TestRepository_CheckoutToEphemeralDest(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)

	r, err := NewBuilder(fixture.Dir).Build()
	require.NoError(t, err)

	require.NoError(t, r.Checkout(context.Background()))
	dir := r.Dest.Dir()
	require.NotEmpty(t, dir)

	_, err = os.Stat(filepath.Join(dir, "README.md"))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "ephemeral checkout must be removed on Close")
}

func TestRepository_EphemeralCleanupOnFailure(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)

	r, err := NewBuilder(fixture.Dir).
		Branch("no-such-branch").
		Build()
	require.NoError(t, err)

	err = r.Checkout(context.Background())
	require.Error(t, err)

	dir := r.Dest.Dir()
	require.NoError(t, r.Close())
	if dir != "" {
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr), "ephemeral dir must not leak on failed checkout")
	}
}

func TestRepository_PersistentDatabaseReused(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "db")

	for i := 0; i < 2; i++ {
		r, err := NewBuilder(fixture.Dir).
			Branch("feature").
			Database(dbPath).
			Build()
		require.NoError(t, err)
		require.NoError(t, r.Checkout(context.Background()))
		require.NoError(t, r.Close())
	}

	// The database stays on disk between checkouts
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestRepository_TemporaryDatabaseRemoved(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)

	dest := t.TempDir()
	r, err := NewBuilder(fixture.Dir).
		Branch("feature").
		Dest(dest).
		Build()
	require.NoError(t, err)
	require.Empty(t, r.DBPath)

	require.NoError(t, r.Checkout(context.Background()))
	require.NoError(t, r.Close())

	// Content arrived even though no database path was pinned
	_, err = os.Stat(filepath.Join(dest, "contracts", "Extra.sol"))
	assert.NoError(t, err)
}

func TestLocalSource(t *testing.T) {
	t.Run("existing directory resolves to itself", func(t *testing.T) {
		dir := t.TempDir()
		src := Local(dir)

		root, err := src.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, dir, root)
		assert.NoError(t, src.Close())
	})

	t.Run("missing directory fails resolution", func(t *testing.T) {
		src := Local(filepath.Join(t.TempDir(), "nope"))

		_, err := src.Resolve(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidSourcePath)

		var resolutionErr *domain.ResolutionError
		assert.ErrorAs(t, err, &resolutionErr)
	})
}

func TestRemoteSource(t *testing.T) {
	requireGitUploadPack(t)
	fixture := helpers.NewFixtureRepo(t)

	src, err := FromBuilder(NewBuilder(fixture.Dir).Branch("feature"))
	require.NoError(t, err)

	root, err := src.Resolve(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "contracts", "Extra.sol"))
	require.NoError(t, err)

	require.NoError(t, src.Close())
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

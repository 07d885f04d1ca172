package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/gitdb"
)

func TestBuilder_LastReferenceWins(t *testing.T) {
	r, err := NewBuilder("https://example.com/org/repo").
		Branch("develop").
		Tag("v1.0.0").
		Rev("abc123").
		Build()
	require.NoError(t, err)

	assert.Equal(t, gitdb.RefRev, r.Ref.Kind())
	assert.Equal(t, "abc123", r.Ref.Value())
}

func TestBuilder_DefaultReference(t *testing.T) {
	r, err := NewBuilder("https://example.com/org/repo").Build()
	require.NoError(t, err)
	assert.True(t, r.Ref.IsDefault())
}

// A builder is a value: forking it never mutates the original.
func TestBuilder_Immutable(t *testing.T) {
	base := NewBuilder("https://example.com/org/repo")
	branched := base.Branch("develop")
	tagged := base.Tag("v1.0.0")

	baseRepo, err := base.Build()
	require.NoError(t, err)
	assert.True(t, baseRepo.Ref.IsDefault())

	branchedRepo, err := branched.Build()
	require.NoError(t, err)
	assert.Equal(t, gitdb.RefBranch, branchedRepo.Ref.Kind())

	taggedRepo, err := tagged.Build()
	require.NoError(t, err)
	assert.Equal(t, gitdb.RefTag, taggedRepo.Ref.Kind())
}

func TestBuilder_Destinations(t *testing.T) {
	t.Run("explicit dest is caller-owned", func(t *testing.T) {
		r, err := NewBuilder("https://example.com/org/repo").
			Dest("/tmp/checkout").
			Build()
		require.NoError(t, err)
		assert.Equal(t, PathDestination("/tmp/checkout"), r.Dest)
	})

	t.Run("no dest allocates an ephemeral one", func(t *testing.T) {
		r, err := NewBuilder("https://example.com/org/repo").Build()
		require.NoError(t, err)

		_, ok := r.Dest.(*EphemeralDestination)
		assert.True(t, ok)
		// Not materialized yet
		assert.Empty(t, r.Dest.Dir())
	})
}

func TestBuilder_Database(t *testing.T) {
	r, err := NewBuilder("https://example.com/org/repo").
		Database("/var/db/repo").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "/var/db/repo", r.DBPath)
}

func TestBuilder_InvalidURL(t *testing.T) {
	_, err := NewBuilder("").Build()
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	var resolutionErr *domain.ResolutionError
	assert.ErrorAs(t, err, &resolutionErr)
}

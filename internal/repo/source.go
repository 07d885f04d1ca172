package repo

import (
	"context"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/utils"
)

// SourceLocation is where to find the source project: a local directory or
// a remote repository. Resolving a local location validates the path and
// returns it; resolving a remote one performs the full checkout-and-extract
// sequence.
type SourceLocation interface {
	// Resolve produces a usable project root
	Resolve(ctx context.Context) (string, error)
	// Close releases any resources the resolution allocated
	Close() error
}

// LocalSource is a project already on disk
type LocalSource string

// Local creates a source location for a project directory on disk
func Local(path string) LocalSource {
	return LocalSource(path)
}

// Resolve implements SourceLocation. It is a validation-only no-op.
func (l LocalSource) Resolve(ctx context.Context) (string, error) {
	path := utils.ExpandPath(string(l))
	if !utils.DirExists(path) {
		return "", domain.NewResolutionError(string(l), domain.ErrInvalidSourcePath)
	}
	return path, nil
}

// Close implements SourceLocation
func (l LocalSource) Close() error {
	return nil
}

// RemoteSource is a project that must be checked out first
type RemoteSource struct {
	Repo *Repository
}

// FromRepository creates a source location for a pre-built Repository
func FromRepository(r *Repository) *RemoteSource {
	return &RemoteSource{Repo: r}
}

// FromBuilder finalizes a builder into a remote source location
func FromBuilder(b Builder) (*RemoteSource, error) {
	r, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &RemoteSource{Repo: r}, nil
}

// RemoteURL creates a source location for a remote repository at its
// default branch
func RemoteURL(url string) (*RemoteSource, error) {
	return FromBuilder(NewBuilder(url))
}

// Resolve implements SourceLocation: checkout plus extraction, returning
// the destination directory
func (r *RemoteSource) Resolve(ctx context.Context) (string, error) {
	if err := r.Repo.Checkout(ctx); err != nil {
		return "", err
	}
	return r.Repo.Dest.Dir(), nil
}

// Close implements SourceLocation, releasing ephemeral resources
func (r *RemoteSource) Close() error {
	return r.Repo.Close()
}

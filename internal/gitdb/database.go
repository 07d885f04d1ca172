package gitdb

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitcache "github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/dorucioclea/foundry/internal/domain"
)

// Database is a handle bound to the bare, content-addressed object store of
// one remote. Fetches only ever add objects; nothing is truncated or
// discarded, so any number of checkouts can share one database path.
type Database struct {
	path string
	repo *gogit.Repository
}

func newStorage(path string) *filesystem.Storage {
	return filesystem.NewStorage(osfs.New(path), gitcache.NewObjectLRUDefault())
}

// Init creates a new bare database at path
func Init(path string) (*Database, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	repo, err := gogit.Init(newStorage(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database at %s: %w", path, err)
	}

	return &Database{path: path, repo: repo}, nil
}

// Open opens an existing database at path
func Open(path string) (*Database, error) {
	repo, err := gogit.Open(newStorage(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	return &Database{path: path, repo: repo}, nil
}

// OpenOrInit opens the database at path, creating it if absent
func OpenOrInit(path string) (*Database, error) {
	db, err := Open(path)
	if err == nil {
		return db, nil
	}
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return Init(path)
	}
	return nil, err
}

// Path returns the database's on-disk location
func (d *Database) Path() string {
	return d.path
}

// Contains reports whether a commit with the given identifier is present
func (d *Database) Contains(oid domain.Oid) bool {
	if oid.IsZero() {
		return false
	}
	hash := plumbing.NewHash(oid.String())
	_, err := object.GetCommit(d.repo.Storer, hash)
	return err == nil
}

// Resolve maps a reference to exactly one content identifier within the
// database. The database must already hold the objects for the reference;
// Resolve never fetches.
func (d *Database) Resolve(ref Reference) (domain.Oid, error) {
	switch ref.Kind() {
	case RefBranch:
		return d.resolveRef(plumbing.NewBranchReferenceName(ref.Value()))
	case RefTag:
		return d.resolveRef(plumbing.NewTagReferenceName(ref.Value()))
	case RefRev:
		return d.resolveRev(ref.Value())
	default:
		return d.resolveDefault()
	}
}

func (d *Database) resolveRef(name plumbing.ReferenceName) (domain.Oid, error) {
	r, err := d.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", domain.ErrReferenceNotFound
		}
		return "", err
	}
	return d.peelToCommit(r.Hash())
}

// resolveRev resolves a raw revision string. A string naming both a branch
// and a tag is rejected as ambiguous rather than silently preferring one.
func (d *Database) resolveRev(rev string) (domain.Oid, error) {
	_, branchErr := d.repo.Reference(plumbing.NewBranchReferenceName(rev), true)
	_, tagErr := d.repo.Reference(plumbing.NewTagReferenceName(rev), true)
	if branchErr == nil && tagErr == nil {
		return "", domain.ErrAmbiguousReference
	}

	hash, err := d.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", domain.ErrReferenceNotFound
		}
		return "", err
	}
	return d.peelToCommit(*hash)
}

// resolveDefault resolves the remote's default branch. HEAD is set by the
// fetch path to mirror the remote's advertised HEAD; repositories fetched
// before that convention fall back to main, then master.
func (d *Database) resolveDefault() (domain.Oid, error) {
	if head, err := d.repo.Head(); err == nil {
		return d.peelToCommit(head.Hash())
	}

	for _, name := range []string{"main", "master"} {
		if oid, err := d.resolveRef(plumbing.NewBranchReferenceName(name)); err == nil {
			return oid, nil
		}
	}

	return "", domain.ErrReferenceNotFound
}

// peelToCommit follows annotated tags down to the commit they point at
func (d *Database) peelToCommit(hash plumbing.Hash) (domain.Oid, error) {
	for {
		if _, err := object.GetCommit(d.repo.Storer, hash); err == nil {
			return domain.Oid(hash.String()), nil
		}

		tag, err := object.GetTag(d.repo.Storer, hash)
		if err != nil {
			return "", domain.ErrObjectNotFound
		}
		hash = tag.Target
	}
}

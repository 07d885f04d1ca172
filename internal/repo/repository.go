package repo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/gitdb"
	"github.com/dorucioclea/foundry/internal/utils"
)

// Repository describes a remote repository to check out: where it lives,
// which reference to resolve, where its database goes, and where the
// extracted tree lands. Build one via Builder, consume it once via Checkout.
type Repository struct {
	// Remote is the repository's location
	Remote *gitdb.Remote
	// Ref is the branch, tag or revision to check out
	Ref gitdb.Reference
	// DBPath pins the object database to a persistent location. Empty means
	// a temporary database is used and cleaned up after extraction.
	DBPath string
	// Dest is where the tree is extracted
	Dest Destination

	checkoutOpts []gitdb.CheckoutOption
	extractOpts  []gitdb.ExtractOption
}

// Checkout resolves the reference, ensures the content is in the database,
// and extracts the resolved tree into the destination. With no persistent
// database path, a temporary database nested inside a temporary root is
// used and removed again on every exit path.
func (r *Repository) Checkout(ctx context.Context) error {
	if e, ok := r.Dest.(*EphemeralDestination); ok {
		if err := e.materialize(); err != nil {
			return domain.NewCheckoutError(r.Ref.String(), err)
		}
	}

	dbPath := r.DBPath
	if dbPath == "" {
		tmp, err := os.MkdirTemp("", "foundry-db-")
		if err != nil {
			return domain.NewCheckoutError(r.Ref.String(), err)
		}
		defer os.RemoveAll(tmp)
		dbPath = filepath.Join(tmp, utils.RepoName(r.Remote.URL()))
	}

	db, oid, err := r.Remote.Checkout(ctx, dbPath, r.Ref, r.checkoutOpts...)
	if err != nil {
		return err
	}

	return gitdb.Extract(db, oid, r.Dest.Dir(), r.extractOpts...)
}

// Close releases the destination. Ephemeral destinations are deleted;
// caller-supplied paths survive.
func (r *Repository) Close() error {
	if r.Dest == nil {
		return nil
	}
	return r.Dest.Close()
}

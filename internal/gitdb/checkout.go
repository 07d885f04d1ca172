package gitdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dorucioclea/foundry/internal/domain"
)

// Checkout ensures the referenced content is present in the database at
// dbPath (creating the database if absent) and resolves ref to exactly one
// content identifier. It returns a handle bound to that database plus the
// identifier.
//
// Access to the database path is serialized with an advisory file lock held
// for the duration of fetch and resolution, so concurrent checkouts against
// a shared database never interleave writes to the object store.
func (r *Remote) Checkout(ctx context.Context, dbPath string, ref Reference, opts ...CheckoutOption) (*Database, domain.Oid, error) {
	cfg := &checkoutConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, "", domain.NewCheckoutError(ref.String(), err)
	}

	var db *Database
	var oid domain.Oid

	err := withDatabaseLock(ctx, dbPath, func() error {
		var err error
		db, err = OpenOrInit(dbPath)
		if err != nil {
			return err
		}

		// A cached resolution whose commit already lives in this database
		// satisfies the checkout without touching the network.
		if cfg.cache != nil {
			if cached, cacheErr := cfg.cache.Resolve(ctx, r.url, ref.String()); cacheErr == nil {
				if db.Contains(cached) {
					oid = cached
					return nil
				}
			}
		}

		if err := r.fetch(ctx, db, ref, cfg); err != nil {
			return err
		}

		oid, err = db.Resolve(ref)
		if err != nil {
			return domain.NewCheckoutError(ref.String(), err)
		}

		if cfg.cache != nil {
			// Best effort; a failed cache write never fails the checkout
			_ = cfg.cache.Store(ctx, r.url, ref.String(), oid)
		}
		return nil
	})
	if err != nil {
		var checkoutErr *domain.CheckoutError
		var fetchErr *domain.FetchError
		if errors.As(err, &checkoutErr) || errors.As(err, &fetchErr) {
			return nil, "", err
		}
		return nil, "", domain.NewCheckoutError(ref.String(), fmt.Errorf("database %s: %w", dbPath, err))
	}

	return db, oid, nil
}

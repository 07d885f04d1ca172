package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dorucioclea/foundry/internal/domain"
)

// ResolutionCache persists reference resolutions ((url, ref) → oid) in
// BadgerDB so that a checkout whose target is already in the database can
// skip the network fetch entirely.
type ResolutionCache struct {
	db  *badger.DB
	ttl time.Duration
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	// TTL applies to mutable references (branches, default branch).
	// Immutable references (tags, raw revisions) are stored without expiry.
	TTL time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		TTL: 24 * time.Hour,
	}
}

// NewResolutionCache creates a new BadgerDB-backed resolution cache
func NewResolutionCache(opts Options) (*ResolutionCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = filepath.Join(homeDir, ".foundry", "resolutions")
		}

		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultOptions().TTL
	}

	return &ResolutionCache{db: db, ttl: ttl}, nil
}

// Resolve returns the cached identifier for (url, ref), or domain.ErrCacheMiss
func (c *ResolutionCache) Resolve(ctx context.Context, url, ref string) (domain.Oid, error) {
	key := ResolutionKey(url, ref)

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}

	return domain.Oid(value), nil
}

// Store records a resolution. Mutable references expire after the
// configured TTL; immutable ones are kept until evicted explicitly.
func (c *ResolutionCache) Store(ctx context.Context, url, ref string, oid domain.Oid) error {
	key := ResolutionKey(url, ref)

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), []byte(oid))
		if MutableRef(ref) && c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a cached resolution
func (c *ResolutionCache) Delete(ctx context.Context, url, ref string) error {
	key := ResolutionKey(url, ref)

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear removes all entries from the cache
func (c *ResolutionCache) Clear() error {
	return c.db.DropAll()
}

// Size returns the number of entries in the cache
func (c *ResolutionCache) Size() int64 {
	var count int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Close releases cache resources
func (c *ResolutionCache) Close() error {
	return c.db.Close()
}

// Ensure ResolutionCache implements domain.OidCache
var _ domain.OidCache = (*ResolutionCache)(nil)

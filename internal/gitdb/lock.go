package gitdb

import (
	"context"
	"time"

	"github.com/danjacques/gofslock/fslock"
)

// lockHeldDelay is how long to sleep between attempts on a held lock
const lockHeldDelay = 100 * time.Millisecond

// lockPath returns the advisory lock file guarding a database path.
// The lock lives next to the database, not inside it, so it survives
// database creation and removal.
func lockPath(dbPath string) string {
	return dbPath + ".lock"
}

// withDatabaseLock runs fn while holding the advisory lock for dbPath.
// Contending processes block until the holder releases it or ctx is done.
func withDatabaseLock(ctx context.Context, dbPath string, fn func() error) error {
	blocker := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(lockHeldDelay)
		return nil
	}

	return fslock.WithBlocking(lockPath(dbPath), blocker, fn)
}

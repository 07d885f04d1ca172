// Package gitdb implements the versioned source resolution subsystem: a
// reusable, on-disk object database per remote, reference resolution to an
// immutable content identifier, and extraction of a resolved tree into a
// plain working directory.
//
// Architecture:
//   - Remote: identifies a remote location and owns fetching into a database
//   - Database: bound handle over the bare, content-addressed object store
//   - Reference: branch/tag/revision variant mapped to refspecs and queries
//   - Checkout: fetch-if-needed plus resolution, under an advisory file lock
//   - Extract: materializes a commit's tree as plain files
//
// Usage:
//
//	remote, _ := gitdb.NewRemote("https://github.com/aave/aave-v3-core")
//	db, oid, err := remote.Checkout(ctx, dbPath, gitdb.TagReference("v1.16.0"))
//	if err == nil {
//	    err = gitdb.Extract(db, oid, dest)
//	}
package gitdb

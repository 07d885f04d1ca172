package repo

import (
	"os"
)

// Destination is where a repository's extracted tree ends up. It has two
// variants: a caller-owned path that outlives the operation, and an
// ephemeral directory owned by the system and deleted on Close.
type Destination interface {
	// Dir returns the concrete directory, regardless of variant.
	// For an ephemeral destination this is empty until materialized.
	Dir() string
	// Close releases the destination. Caller-owned paths are never deleted.
	Close() error
}

// PathDestination is a caller-supplied persistent directory
type PathDestination string

// Dir implements Destination
func (p PathDestination) Dir() string {
	return string(p)
}

// Close implements Destination. The directory is caller-owned and survives.
func (p PathDestination) Close() error {
	return nil
}

// EphemeralDestination is a system-allocated temporary directory, named
// after the repository for debuggability and deleted when closed.
type EphemeralDestination struct {
	prefix string
	dir    string
}

// NewEphemeralDestination prepares an ephemeral destination. No directory
// is created until materialize is called.
func NewEphemeralDestination(prefix string) *EphemeralDestination {
	if prefix == "" {
		prefix = "repo"
	}
	return &EphemeralDestination{prefix: prefix}
}

// Dir implements Destination
func (e *EphemeralDestination) Dir() string {
	return e.dir
}

// materialize allocates the temporary directory. Idempotent.
func (e *EphemeralDestination) materialize() error {
	if e.dir != "" {
		return nil
	}
	dir, err := os.MkdirTemp("", e.prefix+"-")
	if err != nil {
		return err
	}
	e.dir = dir
	return nil
}

// Close implements Destination, removing the directory if it was created
func (e *EphemeralDestination) Close() error {
	if e.dir == "" {
		return nil
	}
	dir := e.dir
	e.dir = ""
	return os.RemoveAll(dir)
}

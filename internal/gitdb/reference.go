package gitdb

import (
	"fmt"

	"github.com/go-git/go-git/v5/config"
)

// RefKind discriminates the reference variants
type RefKind int

const (
	// RefDefault resolves to the tip of the remote's default branch (its
	// advertised HEAD). This is the zero value, used when no reference was
	// ever specified.
	RefDefault RefKind = iota
	RefBranch
	RefTag
	RefRev
)

// Reference is a symbolic pointer into a remote's history: a branch name, a
// tag name, or a raw revision string. Exactly one kind is active; the zero
// value means the remote's default branch.
//
// Reference is a pure value. Mapping to fetch refspecs and revision
// expressions involves no network or disk access.
type Reference struct {
	kind  RefKind
	value string
}

// DefaultReference returns a reference to the remote's default branch
func DefaultReference() Reference {
	return Reference{}
}

// BranchReference returns a reference to a branch tip
func BranchReference(name string) Reference {
	return Reference{kind: RefBranch, value: name}
}

// TagReference returns a reference to a tag
func TagReference(name string) Reference {
	return Reference{kind: RefTag, value: name}
}

// RevReference returns a reference to a raw revision string (a full or
// abbreviated commit hash)
func RevReference(rev string) Reference {
	return Reference{kind: RefRev, value: rev}
}

// Kind returns the active variant
func (r Reference) Kind() RefKind {
	return r.kind
}

// Value returns the branch name, tag name, or revision string
func (r Reference) Value() string {
	return r.value
}

// IsDefault reports whether no explicit reference was set
func (r Reference) IsDefault() bool {
	return r.kind == RefDefault
}

// RefSpecs returns the fetch refspecs that bring the objects needed to
// resolve this reference into a database. Raw revisions and the default
// branch need the full ref advertisement since the owning ref is unknown
// up front.
func (r Reference) RefSpecs() []config.RefSpec {
	switch r.kind {
	case RefBranch:
		return []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/heads/%s", r.value, r.value)),
		}
	case RefTag:
		return []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/tags/%s:refs/tags/%s", r.value, r.value)),
		}
	case RefRev:
		return []config.RefSpec{
			config.RefSpec("+refs/heads/*:refs/heads/*"),
			config.RefSpec("+refs/tags/*:refs/tags/*"),
		}
	default:
		return []config.RefSpec{
			config.RefSpec("+refs/heads/*:refs/heads/*"),
		}
	}
}

// String returns the canonical resolution query for this reference: a full
// ref path for branches and tags, the raw string for revisions, and "HEAD"
// for the default branch.
func (r Reference) String() string {
	switch r.kind {
	case RefBranch:
		return "refs/heads/" + r.value
	case RefTag:
		return "refs/tags/" + r.value
	case RefRev:
		return r.value
	default:
		return "HEAD"
	}
}

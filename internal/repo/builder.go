package repo

import (
	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/gitdb"
	"github.com/dorucioclea/foundry/internal/utils"
)

// Builder accumulates the pieces of a Repository. It is an immutable value:
// every setter returns a new Builder, so a partially configured builder can
// be shared and forked safely.
//
// The reference setters are mutually exclusive; the last call wins.
// Build performs no network or repository I/O.
type Builder struct {
	url    string
	ref    gitdb.Reference
	dest   string
	dbPath string

	checkoutOpts []gitdb.CheckoutOption
	extractOpts  []gitdb.ExtractOption
}

// NewBuilder starts a builder for the repository at url
func NewBuilder(url string) Builder {
	return Builder{url: url}
}

// Branch selects a branch to check out
func (b Builder) Branch(name string) Builder {
	b.ref = gitdb.BranchReference(name)
	return b
}

// Tag selects a tag to check out
func (b Builder) Tag(name string) Builder {
	b.ref = gitdb.TagReference(name)
	return b
}

// Rev selects a specific revision to check out
func (b Builder) Rev(rev string) Builder {
	b.ref = gitdb.RevReference(rev)
	return b
}

// Dest sets a persistent directory to extract into. Without it, an
// ephemeral directory is allocated and deleted after use.
func (b Builder) Dest(dir string) Builder {
	b.dest = dir
	return b
}

// Database pins the object database to a persistent path, making the fetch
// cache reusable across invocations. Without it, a temporary database is
// used and cleaned up after extraction.
func (b Builder) Database(dir string) Builder {
	b.dbPath = dir
	return b
}

// CheckoutOptions appends options passed through to the checkout
func (b Builder) CheckoutOptions(opts ...gitdb.CheckoutOption) Builder {
	b.checkoutOpts = append(b.checkoutOpts[:len(b.checkoutOpts):len(b.checkoutOpts)], opts...)
	return b
}

// ExtractOptions appends options passed through to the extraction
func (b Builder) ExtractOptions(opts ...gitdb.ExtractOption) Builder {
	b.extractOpts = append(b.extractOpts[:len(b.extractOpts):len(b.extractOpts)], opts...)
	return b
}

// Build finalizes the Repository. Pure data assembly: the ephemeral
// destination directory, when needed, is allocated lazily at checkout.
func (b Builder) Build() (*Repository, error) {
	remote, err := gitdb.NewRemote(b.url)
	if err != nil {
		return nil, domain.NewResolutionError(b.url, err)
	}

	var dest Destination
	if b.dest != "" {
		dest = PathDestination(b.dest)
	} else {
		dest = NewEphemeralDestination(utils.RepoName(b.url))
	}

	return &Repository{
		Remote:       remote,
		Ref:          b.ref,
		DBPath:       b.dbPath,
		Dest:         dest,
		checkoutOpts: b.checkoutOpts,
		extractOpts:  b.extractOpts,
	}, nil
}

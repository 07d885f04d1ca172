// Package helpers provides shared test fixtures.
package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// FixtureRepo is a local git repository built for tests
type FixtureRepo struct {
	// Dir is the worktree directory; usable directly as a remote URL
	Dir string
	// GitDir is the object database directory (Dir/.git)
	GitDir string

	// MasterTip is the tip commit of master
	MasterTip string
	// FeatureTip is the tip commit of the feature branch
	FeatureTip string
	// TaggedCommit is the commit the v1.0.0 annotated tag points at
	TaggedCommit string

	repo *gogit.Repository
}

// NewFixtureRepo creates a repository with two branches, an annotated tag,
// a lightweight tag, and a name that is both a branch and a tag:
//
//	master:  contracts/Counter.sol, README.md, bin/run (executable)
//	feature: adds contracts/Extra.sol
//	v1.0.0:  annotated tag on the first master commit
//	latest:  lightweight tag on master tip
//	dual:    both a branch and a lightweight tag
func NewFixtureRepo(t *testing.T) *FixtureRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	f := &FixtureRepo{
		Dir:    dir,
		GitDir: filepath.Join(dir, ".git"),
		repo:   repo,
	}

	f.WriteFile(t, "contracts/Counter.sol", "contract Counter { uint256 count; }\n")
	f.WriteFile(t, "README.md", "# fixture\n")
	f.WriteExecutable(t, "bin/run", "#!/bin/sh\nexit 0\n")
	first := f.Commit(t, "initial")
	f.TaggedCommit = first

	f.Tag(t, "v1.0.0", first, true)

	f.WriteFile(t, "contracts/Counter.sol", "contract Counter { uint256 public count; }\n")
	f.MasterTip = f.Commit(t, "make count public")
	f.Tag(t, "latest", f.MasterTip, false)

	f.Branch(t, "feature")
	f.WriteFile(t, "contracts/Extra.sol", "contract Extra {}\n")
	f.FeatureTip = f.Commit(t, "add extra contract")

	f.Branch(t, "dual")
	f.Tag(t, "dual", f.MasterTip, false)

	// Leave the worktree on master so HEAD matches MasterTip
	f.checkout(t, "master")

	return f
}

// WriteFile writes a file into the worktree
func (f *FixtureRepo) WriteFile(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(f.Dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// WriteExecutable writes an executable file into the worktree
func (f *FixtureRepo) WriteExecutable(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(f.Dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0755))
}

// Commit stages everything and commits, returning the commit hash
func (f *FixtureRepo) Commit(t *testing.T, message string) string {
	t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&gogit.AddOptions{All: true}))

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "fixture",
			Email: "fixture@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash.String()
}

// Branch creates a branch at the current HEAD and checks it out
func (f *FixtureRepo) Branch(t *testing.T, name string) {
	t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}))
}

// Tag creates a tag on the given commit, annotated or lightweight
func (f *FixtureRepo) Tag(t *testing.T, name, commit string, annotated bool) {
	t.Helper()

	var opts *gogit.CreateTagOptions
	if annotated {
		opts = &gogit.CreateTagOptions{
			Message: name,
			Tagger: &object.Signature{
				Name:  "fixture",
				Email: "fixture@example.com",
				When:  time.Now(),
			},
		}
	}
	_, err := f.repo.CreateTag(name, plumbing.NewHash(commit), opts)
	require.NoError(t, err)
}

func (f *FixtureRepo) checkout(t *testing.T, branch string) {
	t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	}))
}

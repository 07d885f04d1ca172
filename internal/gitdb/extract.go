package gitdb

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/utils"
)

// ExtractOption configures an extraction
type ExtractOption func(*extractConfig)

type extractConfig struct {
	showProgress bool
}

// WithExtractProgress renders a progress bar while files are written
func WithExtractProgress() ExtractOption {
	return func(c *extractConfig) {
		c.showProgress = true
	}
}

// Extract materializes the file tree reachable from oid into dest as plain
// files: directory structure, file contents and executable bits, but no
// history metadata. The identifier must already be present in the database;
// Extract never fetches.
//
// Extraction is additive and overwriting, not clean-and-replace: files
// already present in dest that are not part of the extracted tree are left
// untouched. Callers that need a reproducible tree must start from an empty
// destination.
func Extract(db *Database, oid domain.Oid, dest string, opts ...ExtractOption) error {
	cfg := &extractConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !db.Contains(oid) {
		return domain.NewExtractionError(oid, dest, domain.ErrObjectNotFound)
	}

	commit, err := object.GetCommit(db.repo.Storer, plumbing.NewHash(oid.String()))
	if err != nil {
		return domain.NewExtractionError(oid, dest, domain.ErrObjectNotFound)
	}

	tree, err := commit.Tree()
	if err != nil {
		return domain.NewExtractionError(oid, dest, err)
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return domain.NewExtractionError(oid, dest, err)
	}

	var bar interface{ Add(int) error }
	if cfg.showProgress {
		count := 0
		_ = tree.Files().ForEach(func(*object.File) error {
			count++
			return nil
		})
		bar = utils.NewProgressBar(count, utils.DescExtracting)
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		if err := writeFile(f, dest); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
	if err != nil {
		return domain.NewExtractionError(oid, dest, err)
	}

	return nil
}

func writeFile(f *object.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))

	// Refuse entries that would escape the destination
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.New("tree entry escapes destination: " + f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	switch f.Mode {
	case filemode.Symlink:
		content, err := f.Contents()
		if err != nil {
			return err
		}
		_ = os.Remove(target)
		return os.Symlink(content, target)
	case filemode.Submodule:
		// Nested submodules are not resolved
		return nil
	}

	perm := os.FileMode(0644)
	if f.Mode == filemode.Executable {
		perm = 0755
	}

	reader, err := f.Blob.Reader()
	if err != nil {
		return err
	}
	defer reader.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// The open mode does not change permissions of pre-existing files
	return os.Chmod(target, perm)
}

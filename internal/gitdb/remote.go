package gitdb

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/dorucioclea/foundry/internal/domain"
)

// Remote identifies a remote source location. Its URL is the identity for
// cache-keying: two remotes with equal URLs share one database.
type Remote struct {
	url string
}

// NewRemote creates a handle for the repository at url
func NewRemote(rawURL string) (*Remote, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, domain.ErrInvalidURL
	}
	if strings.Contains(rawURL, "://") {
		if _, err := url.Parse(rawURL); err != nil {
			return nil, domain.ErrInvalidURL
		}
	}
	return &Remote{url: rawURL}, nil
}

// URL returns the remote's location
func (r *Remote) URL() string {
	return r.url
}

// defaultAuth builds token auth from the environment for HTTP remotes
func (r *Remote) defaultAuth() transport.AuthMethod {
	if !strings.HasPrefix(r.url, "http://") && !strings.HasPrefix(r.url, "https://") {
		return nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &githttp.BasicAuth{
			Username: "token",
			Password: token,
		}
	}
	return nil
}

// head returns the branch the remote advertises as HEAD
func (r *Remote) head(ctx context.Context, auth transport.AuthMethod) (plumbing.ReferenceName, error) {
	rem := gogit.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{r.url},
	})

	refs, err := rem.ListContext(ctx, &gogit.ListOptions{Auth: auth})
	if err != nil {
		return "", err
	}

	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD && ref.Type() == plumbing.SymbolicReference {
			return ref.Target(), nil
		}
	}
	return "", domain.ErrReferenceNotFound
}

// fetch ensures db contains at least the objects needed to resolve ref.
// The fetch is incremental: objects already present are never transferred
// again, and nothing previously cached is truncated or discarded. An
// already-up-to-date database is success, not an error.
func (r *Remote) fetch(ctx context.Context, db *Database, ref Reference, cfg *checkoutConfig) error {
	auth := cfg.auth
	if auth == nil {
		auth = r.defaultAuth()
	}

	if ref.IsDefault() {
		// Mirror the remote's advertised HEAD locally so the default
		// reference resolves to the right branch tip.
		target, err := r.head(ctx, auth)
		if err == nil {
			sym := plumbing.NewSymbolicReference(plumbing.HEAD, target)
			if err := db.repo.Storer.SetReference(sym); err != nil {
				return domain.NewFetchError(r.url, err)
			}
		}
	}

	opts := &gogit.FetchOptions{
		RemoteURL: r.url,
		RefSpecs:  ref.RefSpecs(),
		Auth:      auth,
		Tags:      gogit.NoTags,
		Force:     true,
	}
	if cfg.progress != nil {
		opts.Progress = cfg.progress
	}

	operation := func() error {
		err := db.repo.FetchContext(ctx, opts)
		if err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate) {
			return nil
		}
		if permanent := classifyFetchError(err); permanent != nil {
			return backoff.Permanent(permanent)
		}
		// Transient network failure, worth retrying
		return err
	}

	if err := backoff.Retry(operation, r.newBackoff(ctx)); err != nil {
		return domain.NewFetchError(r.url, err)
	}
	return nil
}

func (r *Remote) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 10 * time.Second
	b.Multiplier = 2.0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, 3), ctx)
}

// classifyFetchError maps go-git transport errors to the fetch taxonomy.
// A nil return means the error is transient and may be retried.
func classifyFetchError(err error) error {
	if errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) {
		return domain.ErrAuthRequired
	}
	if errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return domain.ErrReferenceNotFound
	}

	var noMatch gogit.NoMatchingRefSpecError
	if errors.As(err, &noMatch) {
		return domain.ErrReferenceNotFound
	}
	if strings.Contains(err.Error(), "couldn't find remote ref") {
		return domain.ErrReferenceNotFound
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return nil
}

// checkoutConfig carries the optional collaborators of a checkout
type checkoutConfig struct {
	auth     transport.AuthMethod
	cache    domain.OidCache
	progress io.Writer
}

// CheckoutOption configures a checkout
type CheckoutOption func(*checkoutConfig)

// WithAuth overrides the authentication used against the remote
func WithAuth(auth transport.AuthMethod) CheckoutOption {
	return func(c *checkoutConfig) {
		c.auth = auth
	}
}

// WithCache consults an oid cache before fetching: a cached resolution
// whose commit is already in the database skips the network entirely
func WithCache(cache domain.OidCache) CheckoutOption {
	return func(c *checkoutConfig) {
		c.cache = cache
	}
}

// WithProgress streams fetch progress messages to w
func WithProgress(w io.Writer) CheckoutOption {
	return func(c *checkoutConfig) {
		c.progress = w
	}
}

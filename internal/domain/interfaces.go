package domain

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../../tests/mocks/domain_mock.go -package=mocks

// CompileRequest describes one compiler invocation
type CompileRequest struct {
	// Root is the resolved project root directory
	Root string
	// ArtifactsDir overrides where artifact JSON files are written.
	// Empty means the config's conventional output directory.
	ArtifactsDir string
	Config       CompilerConfig
}

// Compiler compiles a project root into artifact files plus diagnostics.
// Implementations return an error only for invocation failures; compilation
// problems are reported as diagnostics in the result.
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) (*CompileResult, error)
}

// Generator turns compiled artifact files into a writable binding bundle
type Generator interface {
	Generate(ctx context.Context, artifactsDir string, opts BindOptions) (*Bundle, error)
}

// Executor runs an external hook command. Implementations are expected to
// inherit the caller's standard streams and block until the command exits.
type Executor interface {
	// Run executes argv in dir. A non-zero exit status is returned as a
	// HookCommandError carrying the exit code.
	Run(ctx context.Context, dir string, argv []string) error
}

// OidCache caches reference resolutions so that an already-satisfied
// checkout can skip the network entirely
type OidCache interface {
	// Resolve returns the cached identifier for (url, ref), or ErrCacheMiss
	Resolve(ctx context.Context, url, ref string) (Oid, error)
	// Store records a resolution. A zero ttl means no expiry.
	Store(ctx context.Context, url, ref string, oid Oid) error
}

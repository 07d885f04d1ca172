package binder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/repo"
	"github.com/dorucioclea/foundry/internal/utils"
)

// DefaultBindingsDir is where generated bindings land when no override
// is given.
const DefaultBindingsDir = "src/contracts"

// Binder drives the full build pipeline: resolve the source location,
// run hook commands, compile, and generate contract bindings. Each
// stage is fail-fast; a failing stage aborts the pipeline and later
// stages never run.
type Binder struct {
	source           repo.SourceLocation
	commands         [][]string
	compilerConfig   domain.CompilerConfig
	compiler         domain.Compiler
	generator        domain.Generator
	executor         domain.Executor
	bindingsDir      string
	bindingsPackage  string
	deployable       bool
	keepArtifacts    string
	archiveArtifacts bool
	logger           *utils.Logger
}

// Options contains options for creating a Binder
type Options struct {
	// Source is the project to build. Required.
	Source repo.SourceLocation

	// Commands are hook argv lists run sequentially in the resolved
	// root before compilation
	Commands [][]string

	CompilerConfig domain.CompilerConfig

	// Compiler and Generator default to the solc compiler and the Go
	// binding generator
	Compiler  domain.Compiler
	Generator domain.Generator

	// Executor runs hook commands; defaults to a stdio-inheriting
	// subprocess executor
	Executor domain.Executor

	// BindingsDir is where generated bindings are written. Relative
	// paths are taken as-is, against the caller's working directory.
	// Defaults to DefaultBindingsDir.
	BindingsDir string

	// BindingsPackage overrides the generated package name
	BindingsPackage string

	// Deployable controls whether creation bytecode is embedded in the
	// bindings. Nil means true.
	Deployable *bool

	// KeepArtifacts redirects compiler artifacts to the given directory
	// instead of a temporary one removed after generation
	KeepArtifacts string

	// ArchiveArtifacts additionally writes a zstd-compressed tarball of
	// the retained artifacts. Only meaningful with KeepArtifacts.
	ArchiveArtifacts bool

	Logger *utils.Logger
}

// New creates a new Binder
func New(opts Options) *Binder {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	deployable := true
	if opts.Deployable != nil {
		deployable = *opts.Deployable
	}

	bindingsDir := opts.BindingsDir
	if bindingsDir == "" {
		bindingsDir = DefaultBindingsDir
	}

	return &Binder{
		source:           opts.Source,
		commands:         opts.Commands,
		compilerConfig:   opts.CompilerConfig,
		compiler:         opts.Compiler,
		generator:        opts.Generator,
		executor:         opts.Executor,
		bindingsDir:      bindingsDir,
		bindingsPackage:  opts.BindingsPackage,
		deployable:       deployable,
		keepArtifacts:    opts.KeepArtifacts,
		archiveArtifacts: opts.ArchiveArtifacts,
		logger:           logger.WithComponent("binder"),
	}
}

// Generate runs the pipeline end to end and writes the binding bundle
func (b *Binder) Generate(ctx context.Context) error {
	b.logger.WithStage("resolve").Info().Msg("Resolving source")
	defer func() {
		if cerr := b.source.Close(); cerr != nil {
			b.logger.Warn().Err(cerr).Msg("Failed to clean up source")
		}
	}()
	root, err := b.source.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := b.runHooks(ctx, root); err != nil {
		return err
	}

	result, cleanup, err := b.compile(ctx, root)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, d := range result.Diagnostics {
		if d.Severity == domain.SeverityWarning {
			b.logger.Warn().Msg(d.String())
		}
	}
	if result.HasErrors() {
		return domain.NewCompileError(result.Errors())
	}

	b.logger.WithStage("generate").Info().Msg("Generating bindings")
	bundle, err := b.generatorOrDefault().Generate(ctx, result.ArtifactsDir, domain.BindOptions{
		Deployable: b.deployable,
		Package:    b.bindingsPackage,
	})
	if err != nil {
		return err
	}

	if err := writeBundle(b.bindingsDir, bundle); err != nil {
		return err
	}
	b.logger.Info().
		Int("files", len(bundle.Files)).
		Str("dir", b.bindingsDir).
		Msg("Bindings written")

	if b.archiveArtifacts && b.keepArtifacts != "" {
		archivePath := b.keepArtifacts + ".tar.zst"
		if err := archiveDir(result.ArtifactsDir, archivePath); err != nil {
			return err
		}
		b.logger.Info().Str("archive", archivePath).Msg("Artifacts archived")
	}

	return nil
}

// compile runs the compiler with artifact retention applied. The
// returned cleanup removes the temporary artifacts directory when one
// was used.
func (b *Binder) compile(ctx context.Context, root string) (*domain.CompileResult, func(), error) {
	cfg := b.compilerConfig
	cfg.Root = root

	cleanup := func() {}
	artifactsDir := b.keepArtifacts
	if artifactsDir != "" {
		// Best effort; the compiler surfaces the error if the
		// directory is truly unusable.
		if err := os.MkdirAll(artifactsDir, 0755); err != nil {
			b.logger.Warn().Err(err).Str("dir", artifactsDir).Msg("Failed to create artifacts directory")
		}
	} else {
		tmp, err := os.MkdirTemp("", "binder-artifacts-")
		if err != nil {
			return nil, nil, err
		}
		artifactsDir = tmp
		cleanup = func() { os.RemoveAll(tmp) }
	}

	b.logger.WithStage("compile").Info().Str("root", root).Msg("Compiling project")
	result, err := b.compilerOrDefault().Compile(ctx, domain.CompileRequest{
		Root:         root,
		ArtifactsDir: artifactsDir,
		Config:       cfg,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return result, cleanup, nil
}

func (b *Binder) compilerOrDefault() domain.Compiler {
	if b.compiler != nil {
		return b.compiler
	}
	return newDefaultCompiler(b.logger)
}

func (b *Binder) generatorOrDefault() domain.Generator {
	if b.generator != nil {
		return b.generator
	}
	return newDefaultGenerator(b.logger)
}

// writeBundle materializes every generated file under dir
func writeBundle(dir string, bundle *domain.Bundle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.NewWriteError(dir, err)
	}
	for _, f := range bundle.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return domain.NewWriteError(path, err)
		}
	}
	return nil
}

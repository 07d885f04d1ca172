package binder

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/dorucioclea/foundry/internal/domain"
)

// runHooks executes the configured hook commands sequentially in root.
// The first failing command aborts; later hooks and compilation never
// run.
func (b *Binder) runHooks(ctx context.Context, root string) error {
	executor := b.executor
	if executor == nil {
		executor = ShellExecutor{}
	}

	for _, argv := range b.commands {
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			return domain.NewHookCommandError(argv, -1, domain.ErrEmptyHookCommand)
		}

		b.logger.WithStage("hook").Info().
			Str("command", strings.Join(argv, " ")).
			Msg("Running hook")

		if err := executor.Run(ctx, root, argv); err != nil {
			return err
		}
	}
	return nil
}

// ShellExecutor runs hook commands as subprocesses that inherit the
// parent's standard streams.
type ShellExecutor struct{}

// Run implements domain.Executor
func (ShellExecutor) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return domain.NewHookCommandError(argv, -1, domain.ErrEmptyHookCommand)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return domain.NewHookCommandError(argv, exitErr.ExitCode(), err)
		}
		return domain.NewHookCommandError(argv, -1, err)
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrReferenceNotFound indicates the requested branch/tag/revision does not exist on the remote
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrAuthRequired indicates the remote rejected the fetch for lack of credentials
	ErrAuthRequired = errors.New("authentication required")

	// ErrAmbiguousReference indicates a reference resolved to more than one candidate
	ErrAmbiguousReference = errors.New("ambiguous reference")

	// ErrObjectNotFound indicates a content identifier is absent from the database
	ErrObjectNotFound = errors.New("object not found in database")

	// ErrEmptyHookCommand indicates a hook command with an empty argv was configured
	ErrEmptyHookCommand = errors.New("hook command can't be empty")

	// ErrInvalidSourcePath indicates a local source path does not exist
	ErrInvalidSourcePath = errors.New("invalid source path")

	// ErrInvalidURL indicates an invalid remote URL was provided
	ErrInvalidURL = errors.New("invalid URL")

	// ErrCacheMiss indicates a resolution cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// FetchError represents an error while fetching from a remote into a database
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

// CheckoutError represents a failure to resolve a reference to a content identifier
type CheckoutError struct {
	Ref string
	Err error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout of %q failed: %v", e.Ref, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// NewCheckoutError creates a new CheckoutError
func NewCheckoutError(ref string, err error) *CheckoutError {
	return &CheckoutError{Ref: ref, Err: err}
}

// ExtractionError represents a failure to materialize a tree into a destination
type ExtractionError struct {
	Oid  Oid
	Dest string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction of %s into %s failed: %v", e.Oid.Short(), e.Dest, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(oid Oid, dest string, err error) *ExtractionError {
	return &ExtractionError{Oid: oid, Dest: dest, Err: err}
}

// ResolutionError represents a failure to resolve a source location to a project root
type ResolutionError struct {
	Source string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve source %q: %v", e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// NewResolutionError creates a new ResolutionError
func NewResolutionError(source string, err error) *ResolutionError {
	return &ResolutionError{Source: source, Err: err}
}

// HookCommandError represents a hook command failure
type HookCommandError struct {
	Command  []string
	ExitCode int
	Err      error
}

func (e *HookCommandError) Error() string {
	if len(e.Command) == 0 {
		return fmt.Sprintf("hook command failed: %v", e.Err)
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("hook command %q exited with status %d", strings.Join(e.Command, " "), e.ExitCode)
	}
	return fmt.Sprintf("hook command %q failed: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *HookCommandError) Unwrap() error {
	return e.Err
}

// NewHookCommandError creates a new HookCommandError
func NewHookCommandError(command []string, exitCode int, err error) *HookCommandError {
	return &HookCommandError{Command: command, ExitCode: exitCode, Err: err}
}

// CompileError carries the full diagnostics of a failed compilation.
// Diagnostics are surfaced verbatim, never truncated.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiled with errors:\n%s", FormatDiagnostics(e.Diagnostics))
}

// NewCompileError creates a new CompileError
func NewCompileError(diagnostics []Diagnostic) *CompileError {
	return &CompileError{Diagnostics: diagnostics}
}

// BindingError represents a failure during binding generation
type BindingError struct {
	Contract string
	Err      error
}

func (e *BindingError) Error() string {
	if e.Contract != "" {
		return fmt.Sprintf("binding generation for contract %s failed: %v", e.Contract, e.Err)
	}
	return fmt.Sprintf("binding generation failed: %v", e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// NewBindingError creates a new BindingError
func NewBindingError(contract string, err error) *BindingError {
	return &BindingError{Contract: contract, Err: err}
}

// WriteError represents an I/O failure writing final output
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

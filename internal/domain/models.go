package domain

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Oid is the immutable content identifier of one resolved commit.
// It is produced only by a checkout and is the required input for extraction.
type Oid string

// String returns the full hex representation
func (o Oid) String() string {
	return string(o)
}

// Short returns an abbreviated identifier suitable for log output
func (o Oid) Short() string {
	if len(o) > 8 {
		return string(o[:8])
	}
	return string(o)
}

// IsZero returns true if the identifier is unset
func (o Oid) IsZero() bool {
	return o == ""
}

// Severity classifies a compiler diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single structured message reported by the compiler
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Formatted is the compiler's own human-readable rendering, including
	// source location and code frame when available
	Formatted string `json:"formatted,omitempty"`
}

// String returns the preferred rendering of the diagnostic
func (d Diagnostic) String() string {
	if d.Formatted != "" {
		return d.Formatted
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// FormatDiagnostics renders all diagnostics, one per line, in report order
func FormatDiagnostics(diagnostics []Diagnostic) string {
	var sb strings.Builder
	for i, d := range diagnostics {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

// CompilerConfig contains all settings for how to compile the project.
// Root is injected by the orchestrator after source resolution; callers
// should leave it empty.
type CompilerConfig struct {
	Root          string   `mapstructure:"-" yaml:"-" json:"-"`
	Src           string   `mapstructure:"src" yaml:"src" json:"src"`
	Out           string   `mapstructure:"out" yaml:"out" json:"out"`
	Remappings    []string `mapstructure:"remappings" yaml:"remappings" json:"remappings,omitempty"`
	SolcPath      string   `mapstructure:"solc_path" yaml:"solc_path" json:"solc_path,omitempty"`
	Optimizer     bool     `mapstructure:"optimizer" yaml:"optimizer" json:"optimizer"`
	OptimizerRuns int      `mapstructure:"optimizer_runs" yaml:"optimizer_runs" json:"optimizer_runs"`
	EVMVersion    string   `mapstructure:"evm_version" yaml:"evm_version" json:"evm_version,omitempty"`
}

// DefaultCompilerConfig returns the conventional project layout
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		Src:           "src",
		Out:           "out",
		Optimizer:     true,
		OptimizerRuns: 200,
	}
}

// SrcDir returns the absolute source directory under the project root
func (c CompilerConfig) SrcDir() string {
	return joinRoot(c.Root, c.Src)
}

// OutDir returns the absolute artifact output directory under the project root
func (c CompilerConfig) OutDir() string {
	return joinRoot(c.Root, c.Out)
}

func joinRoot(root, dir string) string {
	if root == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// Artifact is one compiled contract as persisted on disk
type Artifact struct {
	ContractName string          `json:"contractName"`
	SourcePath   string          `json:"sourcePath,omitempty"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode,omitempty"`
}

// CompileResult is the outcome of one compiler invocation
type CompileResult struct {
	// ArtifactsDir is where the artifact JSON files were written
	ArtifactsDir string
	Artifacts    []Artifact
	Diagnostics  []Diagnostic
}

// HasErrors returns true if any diagnostic is of error severity
func (r *CompileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics
func (r *CompileResult) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// GeneratedFile is one file of a generated binding bundle
type GeneratedFile struct {
	// Name is the path relative to the bundle output directory
	Name    string
	Content []byte
}

// Bundle is a writable set of generated binding files
type Bundle struct {
	Files []GeneratedFile
}

// BindOptions controls binding generation
type BindOptions struct {
	// Deployable includes the compiled bytecode in the bindings so the
	// generated contracts can be deployed
	Deployable bool
	// Package is the Go package name for the generated files
	Package string
}

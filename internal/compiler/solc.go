package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/utils"
)

// Solc compiles Solidity projects by invoking the solc binary in
// standard-JSON mode and persisting one artifact file per contract.
type Solc struct {
	logger *utils.Logger
}

// Options contains options for creating a Solc compiler
type Options struct {
	Logger *utils.Logger
}

// New creates a new Solc compiler
func New(opts Options) *Solc {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Solc{logger: logger.WithComponent("compiler")}
}

// standardInput is solc's --standard-json input document
type standardInput struct {
	Language string                 `json:"language"`
	Sources  map[string]inputSource `json:"sources"`
	Settings inputSettings          `json:"settings"`
}

type inputSource struct {
	Content string `json:"content"`
}

type inputSettings struct {
	Remappings      []string                       `json:"remappings,omitempty"`
	Optimizer       optimizerSettings              `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs,omitempty"`
}

// standardOutput is the subset of solc's output document we consume
type standardOutput struct {
	Errors    []solcError                         `json:"errors"`
	Contracts map[string]map[string]*solcContract `json:"contracts"`
}

type solcError struct {
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

type solcContract struct {
	ABI json.RawMessage `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// Compile implements domain.Compiler
func (s *Solc) Compile(ctx context.Context, req domain.CompileRequest) (*domain.CompileResult, error) {
	cfg := req.Config
	if cfg.Root == "" {
		cfg.Root = req.Root
	}
	if cfg.Src == "" {
		cfg.Src = "src"
	}
	if cfg.Out == "" {
		cfg.Out = "out"
	}

	srcDir := cfg.SrcDir()
	sources, err := collectSources(cfg.Root, srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources under %s: %w", srcDir, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no Solidity sources found under %s", srcDir)
	}

	input := standardInput{
		Language: "Solidity",
		Sources:  sources,
		Settings: inputSettings{
			Remappings: cfg.Remappings,
			Optimizer: optimizerSettings{
				Enabled: cfg.Optimizer,
				Runs:    cfg.OptimizerRuns,
			},
			EVMVersion: cfg.EVMVersion,
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"abi", "evm.bytecode.object"}},
			},
		},
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	solcPath := cfg.SolcPath
	if solcPath == "" {
		solcPath = "solc"
	}

	s.logger.Debug().
		Str("solc", solcPath).
		Int("sources", len(sources)).
		Msg("Invoking compiler")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, solcPath, "--standard-json")
	cmd.Dir = cfg.Root
	cmd.Stdin = bytes.NewReader(inputJSON)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Standard-JSON mode reports compilation problems in the output
		// document with a zero exit status, so any failure here is an
		// invocation problem.
		return nil, fmt.Errorf("solc invocation failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var output standardOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to parse solc output: %w", err)
	}

	artifactsDir := req.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = cfg.OutDir()
	}

	result := &domain.CompileResult{
		ArtifactsDir: artifactsDir,
		Diagnostics:  convertDiagnostics(output.Errors),
	}

	if result.HasErrors() {
		return result, nil
	}

	if err := os.MkdirAll(artifactsDir, 0755); err != nil {
		return nil, err
	}

	artifacts, err := writeArtifacts(artifactsDir, output.Contracts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	s.logger.Info().
		Int("contracts", len(artifacts)).
		Str("artifacts", artifactsDir).
		Msg("Compilation succeeded")

	return result, nil
}

// collectSources gathers all .sol files, keyed by path relative to root
func collectSources(root, srcDir string) (map[string]inputSource, error) {
	sources := make(map[string]inputSource)

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".sol") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		key, err := filepath.Rel(root, path)
		if err != nil {
			key = path
		}
		sources[filepath.ToSlash(key)] = inputSource{Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sources, nil
}

func convertDiagnostics(errs []solcError) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, e := range errs {
		severity := domain.Severity(e.Severity)
		switch severity {
		case domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo:
		default:
			severity = domain.SeverityError
		}
		out = append(out, domain.Diagnostic{
			Severity:  severity,
			Message:   e.Message,
			Formatted: e.FormattedMessage,
		})
	}
	return out
}

// writeArtifacts persists one JSON artifact per contract, sorted for
// deterministic output
func writeArtifacts(dir string, contracts map[string]map[string]*solcContract) ([]domain.Artifact, error) {
	var artifacts []domain.Artifact

	var sourcePaths []string
	for sourcePath := range contracts {
		sourcePaths = append(sourcePaths, sourcePath)
	}
	sort.Strings(sourcePaths)

	for _, sourcePath := range sourcePaths {
		var names []string
		for name := range contracts[sourcePath] {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			c := contracts[sourcePath][name]
			artifact := domain.Artifact{
				ContractName: name,
				SourcePath:   sourcePath,
				ABI:          c.ABI,
			}
			if c.EVM.Bytecode.Object != "" {
				artifact.Bytecode = "0x" + c.EVM.Bytecode.Object
			}

			data, err := json.MarshalIndent(artifact, "", "  ")
			if err != nil {
				return nil, err
			}

			path := filepath.Join(dir, name+".json")
			if err := os.WriteFile(path, data, 0644); err != nil {
				return nil, err
			}
			artifacts = append(artifacts, artifact)
		}
	}

	return artifacts, nil
}

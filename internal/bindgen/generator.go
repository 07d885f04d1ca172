package bindgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/utils"
)

const defaultPackage = "contracts"

// Generator produces Go binding files from compiled contract artifacts.
// Each artifact yields one source file exposing the contract's ABI and,
// for deployable contracts, its creation bytecode. A manifest listing
// every generated binding is emitted alongside the sources.
type Generator struct {
	logger *utils.Logger
}

// Options contains options for creating a Generator
type Options struct {
	Logger *utils.Logger
}

// New creates a new Generator
func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Generator{logger: logger.WithComponent("bindgen")}
}

var bindingTemplate = template.Must(template.New("binding").Parse(`// Code generated by binder. DO NOT EDIT.

package {{.Package}}

// {{.Name}}ABI is the input ABI used to interact with the {{.Name}} contract.
const {{.Name}}ABI = ` + "`{{.ABI}}`" + `
{{- if .Deployable}}

// {{.Name}}Bin is the compiled bytecode used for deploying the {{.Name}} contract.
const {{.Name}}Bin = "{{.Bytecode}}"
{{- end}}
`))

type bindingData struct {
	Package    string
	Name       string
	ABI        string
	Bytecode   string
	Deployable bool
}

// manifest is the bindings.yaml document describing generated output
type manifest struct {
	Package   string          `yaml:"package"`
	Contracts []manifestEntry `yaml:"contracts"`
}

type manifestEntry struct {
	Name       string `yaml:"name"`
	Source     string `yaml:"source,omitempty"`
	File       string `yaml:"file"`
	Deployable bool   `yaml:"deployable"`
}

// Generate implements domain.Generator. It reads every contract
// artifact under artifactsDir and renders a binding file per contract.
func (g *Generator) Generate(ctx context.Context, artifactsDir string, opts domain.BindOptions) (*domain.Bundle, error) {
	if opts.Package == "" {
		opts.Package = defaultPackage
	}

	artifacts, err := loadArtifacts(artifactsDir)
	if err != nil {
		return nil, err
	}

	bundle := &domain.Bundle{}
	man := manifest{Package: opts.Package}

	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file, err := renderBinding(artifact, opts)
		if err != nil {
			return nil, domain.NewBindingError(artifact.ContractName, err)
		}
		bundle.Files = append(bundle.Files, file)

		man.Contracts = append(man.Contracts, manifestEntry{
			Name:       artifact.ContractName,
			Source:     artifact.SourcePath,
			File:       file.Name,
			Deployable: opts.Deployable && artifact.Bytecode != "",
		})
	}

	manifestData, err := yaml.Marshal(man)
	if err != nil {
		return nil, err
	}
	bundle.Files = append(bundle.Files, domain.GeneratedFile{
		Name:    "bindings.yaml",
		Content: manifestData,
	})

	g.logger.Info().
		Int("contracts", len(man.Contracts)).
		Str("package", opts.Package).
		Msg("Generated bindings")

	return bundle, nil
}

func renderBinding(artifact domain.Artifact, opts domain.BindOptions) (domain.GeneratedFile, error) {
	abi, err := compactABI(artifact.ABI)
	if err != nil {
		return domain.GeneratedFile{}, fmt.Errorf("invalid ABI: %w", err)
	}

	data := bindingData{
		Package:    opts.Package,
		Name:       exportedName(artifact.ContractName),
		ABI:        abi,
		Bytecode:   artifact.Bytecode,
		Deployable: opts.Deployable && artifact.Bytecode != "",
	}

	var buf bytes.Buffer
	if err := bindingTemplate.Execute(&buf, data); err != nil {
		return domain.GeneratedFile{}, err
	}

	return domain.GeneratedFile{
		Name:    fileName(artifact.ContractName),
		Content: buf.Bytes(),
	}, nil
}

// loadArtifacts reads contract artifacts from dir in sorted order
func loadArtifacts(dir string) ([]domain.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var artifacts []domain.Artifact
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		var artifact domain.Artifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return nil, fmt.Errorf("failed to parse artifact %s: %w", name, err)
		}
		if artifact.ContractName == "" {
			artifact.ContractName = strings.TrimSuffix(name, ".json")
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

// compactABI normalizes the ABI JSON to a single line so it embeds
// cleanly in a raw string literal
func compactABI(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// exportedName converts a contract name into an exported Go identifier
func exportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Contract"
	}
	return b.String()
}

func fileName(contractName string) string {
	var b strings.Builder
	for i, r := range contractName {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	name := strings.ReplaceAll(b.String(), "-", "_")
	return name + ".go"
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/muyuanjin/modsplit/internal/manifest"
	"github.com/muyuanjin/modsplit/pkg/types"
)

// Environment variables recognized by LoadFromEnv and ApplyEnv.
const (
	// EnvPlanPath points at a YAML plan file; unset means the built-in plan.
	EnvPlanPath = "MODSPLIT_PLAN"
	// EnvSource overrides the plan's source path.
	EnvSource = "MODSPLIT_SOURCE"
	// EnvManifestPath overrides the plan's manifest output path.
	EnvManifestPath = "MODSPLIT_MANIFEST"
	// EnvDBPath overrides the run ledger location.
	EnvDBPath = "MODSPLIT_DB_PATH"
)

var (
	// ErrPlanInvalid wraps all plan validation failures.
	ErrPlanInvalid = errors.New("invalid split plan")
)

// Header configures what the harvester treats as comment and import lines.
type Header struct {
	CommentToken string `yaml:"comment_token"`
	ImportToken  string `yaml:"import_token"`
}

// Plan is the operator-facing description of one split run: where the
// monolith lives, where output goes, the section rules, and the manifest
// spec. A plan with no section rules runs in manifest-only mode.
type Plan struct {
	// Source is the monolith to split, read once as UTF-8 text.
	Source string `yaml:"source"`

	// OutDir receives one file per section in full-split mode.
	OutDir string `yaml:"out_dir"`

	// ManifestPath is fully overwritten on every run; parent directories
	// are created as needed.
	ManifestPath string `yaml:"manifest_path"`

	// ModuleExtension is appended to section names for module file names.
	ModuleExtension string `yaml:"module_extension"`

	Header Header `yaml:"header"`

	// Probe is an illustrative single-section extraction, reported in the
	// run log but not written anywhere. Optional.
	Probe *types.SectionRule `yaml:"probe,omitempty"`

	// Sections drive the full split. Empty means manifest-only mode.
	Sections []types.SectionRule `yaml:"sections,omitempty"`

	// Manifest is the spec to render. Nil selects the built-in default.
	Manifest *manifest.Spec `yaml:"manifest,omitempty"`

	// DBPath locates the run ledger database. Empty disables the ledger.
	DBPath string `yaml:"db_path"`
}

// Default returns the built-in plan: ffui's engine split, with the fixed
// paths the original one-shot run used. The section list is empty — the
// default run emits only the manifest and leaves per-module extraction as
// declared follow-up work.
func Default() *Plan {
	return &Plan{
		Source:          "src/ffui_core/engine.rs",
		OutDir:          "src/ffui_core/engine",
		ManifestPath:    "src/ffui_core/engine/mod.rs",
		ModuleExtension: ".rs",
		Probe: &types.SectionRule{
			Name:        "worker",
			StartMarker: "fn spawn_worker",
			EndMarker:   "fn process_transcode_job",
		},
		Manifest: manifest.DefaultSpec(),
	}
}

// Load reads a YAML plan file, fills defaults, and applies environment
// overrides. Unknown fields are rejected so a typoed key fails loudly
// instead of silently configuring nothing.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan := &Plan{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	plan.fillDefaults()
	plan.ApplyEnv()
	return plan, nil
}

// LoadFromEnv resolves the plan the way the CLI does: MODSPLIT_PLAN names a
// plan file, otherwise the built-in default plan is used. Environment
// overrides apply in both cases.
func LoadFromEnv() (*Plan, error) {
	if path := os.Getenv(EnvPlanPath); path != "" {
		return Load(path)
	}
	plan := Default()
	plan.ApplyEnv()
	return plan, nil
}

// ApplyEnv overrides individual plan fields from the environment.
func (p *Plan) ApplyEnv() {
	if v := os.Getenv(EnvSource); v != "" {
		p.Source = v
	}
	if v := os.Getenv(EnvManifestPath); v != "" {
		p.ManifestPath = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		p.DBPath = v
	}
}

func (p *Plan) fillDefaults() {
	if p.ModuleExtension == "" {
		p.ModuleExtension = ".rs"
	}
	if p.Manifest == nil {
		p.Manifest = manifest.DefaultSpec()
	}
}

// Validate checks the plan before the engine runs it.
func (p *Plan) Validate() error {
	if p.Source == "" {
		return fmt.Errorf("%w: source path is required", ErrPlanInvalid)
	}
	if p.ManifestPath == "" {
		return fmt.Errorf("%w: manifest path is required", ErrPlanInvalid)
	}
	if len(p.Sections) > 0 && p.OutDir == "" {
		return fmt.Errorf("%w: out_dir is required when sections are configured", ErrPlanInvalid)
	}
	if p.Probe != nil {
		if err := p.Probe.Validate(); err != nil {
			return fmt.Errorf("%w: probe: %v", ErrPlanInvalid, err)
		}
	}
	for i, rule := range p.Sections {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%w: section %d: %v", ErrPlanInvalid, i, err)
		}
	}
	if p.Manifest == nil {
		return fmt.Errorf("%w: manifest spec is required", ErrPlanInvalid)
	}
	if err := p.Manifest.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlanInvalid, err)
	}
	return nil
}

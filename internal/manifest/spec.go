package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrSpecInvalid wraps all manifest spec validation failures.
	ErrSpecInvalid = errors.New("invalid manifest spec")
)

// Submodule declares one split-out module and its one-line responsibility,
// used both for the `mod` declaration and the file-level doc comment.
type Submodule struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
}

// ReExport carries forward symbols from a submodule so the facade file keeps
// exposing what the original monolith made public.
type ReExport struct {
	From       string   `yaml:"from"`                 // declared submodule name
	Symbols    []string `yaml:"symbols"`              // symbol names, rendered in given order
	Visibility string   `yaml:"visibility,omitempty"` // e.g. "pub(crate)"; empty means private use
}

// Param is one parameter of a facade operation.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Operation is one delegating method on the facade type. It performs no
// business logic: arguments are forwarded unchanged to the target submodule
// function and the result is returned unmodified.
type Operation struct {
	Name     string  `yaml:"name"`
	Params   []Param `yaml:"params,omitempty"`
	Returns  string  `yaml:"returns,omitempty"`   // empty for no return value
	Target   string  `yaml:"target"`              // declared submodule name
	TargetFn string  `yaml:"target_fn,omitempty"` // defaults to Name
	// ExtraArgs are forwarded between the shared-state handle and the
	// operation's own parameters (e.g. "self.clone()").
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// Constructor describes the facade constructor body. The five initialization
// steps run in this fixed order; each field is one statement of the target
// language.
type Constructor struct {
	LoadConfig   string `yaml:"load_config"`
	LoadSettings string `yaml:"load_settings"`
	InitState    string `yaml:"init_state"`
	RestoreQueue string `yaml:"restore_queue"`
	SpawnWorker  string `yaml:"spawn_worker"`
}

// Facade describes the delegating facade type: one ownership handle to the
// shared mutable engine state, a constructor, and pass-through operations.
type Facade struct {
	TypeName    string      `yaml:"type_name"`
	StateField  string      `yaml:"state_field"` // e.g. "inner"
	StateType   string      `yaml:"state_type"`  // e.g. "Arc<Inner>"
	Derives     []string    `yaml:"derives,omitempty"`
	Constructor Constructor `yaml:"constructor"`
	Operations  []Operation `yaml:"operations"`
}

// Spec is the static description of the target manifest document. It is
// configuration, not derived from parsing the monolith.
type Spec struct {
	// Doc is the first line of the file-level doc comment.
	Doc string `yaml:"doc"`

	// Submodules are declared in exactly this order.
	Submodules []Submodule `yaml:"submodules"`

	// TestSubmodule declares an additional `tests` submodule under the
	// test gate when true.
	TestSubmodule bool `yaml:"test_submodule"`

	// FoundationalImports are always emitted; SymbolImports carry the
	// engine's public contract. The rendered block is the order-preserving,
	// deduplicated merge of both.
	FoundationalImports []string `yaml:"foundational_imports"`
	SymbolImports       []string `yaml:"symbol_imports"`

	ReExports []ReExport `yaml:"re_exports,omitempty"`

	Facade Facade `yaml:"facade"`

	// Helpers are free-standing declarations appended after the facade impl.
	Helpers []string `yaml:"helpers,omitempty"`
}

// Validate checks the spec for internal consistency before rendering. Every
// delegation target and every re-export source must name a declared
// submodule, submodule names must be unique, and the facade must be fully
// described. These are configuration errors, surfaced loudly instead of
// emitting inconsistent text.
func (s *Spec) Validate() error {
	if len(s.Submodules) == 0 {
		return fmt.Errorf("%w: no submodules declared", ErrSpecInvalid)
	}

	declared := make(map[string]bool, len(s.Submodules))
	for i, sub := range s.Submodules {
		if sub.Name == "" {
			return fmt.Errorf("%w: submodule %d has no name", ErrSpecInvalid, i)
		}
		if declared[sub.Name] {
			return fmt.Errorf("%w: submodule %q declared twice", ErrSpecInvalid, sub.Name)
		}
		declared[sub.Name] = true
	}

	for _, re := range s.ReExports {
		if !declared[re.From] {
			return fmt.Errorf("%w: re-export from undeclared submodule %q", ErrSpecInvalid, re.From)
		}
		if len(re.Symbols) == 0 {
			return fmt.Errorf("%w: re-export from %q lists no symbols", ErrSpecInvalid, re.From)
		}
	}

	if s.Facade.TypeName == "" {
		return fmt.Errorf("%w: facade type name is required", ErrSpecInvalid)
	}
	if s.Facade.StateField == "" || s.Facade.StateType == "" {
		return fmt.Errorf("%w: facade state handle is required", ErrSpecInvalid)
	}

	seen := make(map[string]bool, len(s.Facade.Operations))
	for _, op := range s.Facade.Operations {
		if op.Name == "" {
			return fmt.Errorf("%w: operation with empty name", ErrSpecInvalid)
		}
		if seen[op.Name] {
			return fmt.Errorf("%w: operation %q declared twice", ErrSpecInvalid, op.Name)
		}
		seen[op.Name] = true
		if !declared[op.Target] {
			return fmt.Errorf("%w: operation %q delegates to undeclared submodule %q",
				ErrSpecInvalid, op.Name, op.Target)
		}
		for _, p := range op.Params {
			if p.Name == "" || p.Type == "" {
				return fmt.Errorf("%w: operation %q has an incomplete parameter", ErrSpecInvalid, op.Name)
			}
		}
	}

	return nil
}

// targetFn returns the submodule function an operation forwards to.
func (op *Operation) targetFn() string {
	if op.TargetFn != "" {
		return op.TargetFn
	}
	return op.Name
}

package project

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"tern/internal/mono"
	"tern/internal/sema"
)

// Manifest is the parsed tern.toml project file.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Budgets BudgetSection  `toml:"budgets"`
	Mono    MonoSection    `toml:"mono"`
	Impls   []ImplSection  `toml:"impl"`
}

// PackageSection names the project and its entrypoints.
type PackageSection struct {
	Name    string   `toml:"name"`
	Entries []string `toml:"entries"`
}

// BudgetSection bounds the inference phase. Zero fields fall back to the
// built-in defaults.
type BudgetSection struct {
	MaxTypeVars    int `toml:"max_type_vars"`
	MaxConstraints int `toml:"max_constraints"`
	MaxSteps       int `toml:"max_steps"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// MonoSection bounds and configures specialization.
type MonoSection struct {
	MaxDepth          int  `toml:"max_depth"`
	MaxInstantiations int  `toml:"max_instantiations"`
	DCE               bool `toml:"dce"`
}

// ImplSection declares one closed-world trait implementation fact,
// "Type satisfies Bound", for types spelled in surface syntax.
type ImplSection struct {
	Bound string `toml:"bound"`
	Type  string `toml:"type"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("project: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("project: unknown manifest key %q in %s", undecoded[0], path)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("project: missing [package].name in %s", path)
	}
	for _, impl := range m.Impls {
		if impl.Bound == "" || impl.Type == "" {
			return nil, fmt.Errorf("project: [[impl]] entries need both bound and type in %s", path)
		}
	}
	return &m, nil
}

// SemaOptions converts the budget section, keeping defaults for zeroes.
func (m *Manifest) SemaOptions() sema.Options {
	return sema.Options{
		MaxTypeVars:    m.Budgets.MaxTypeVars,
		MaxConstraints: m.Budgets.MaxConstraints,
		MaxSteps:       m.Budgets.MaxSteps,
		MaxDiagnostics: m.Budgets.MaxDiagnostics,
	}
}

// MonoOptions converts the mono section, keeping defaults for zeroes.
func (m *Manifest) MonoOptions() mono.Options {
	return mono.Options{
		MaxDepth:          m.Mono.MaxDepth,
		MaxInstantiations: m.Mono.MaxInstantiations,
		EnableDCE:         m.Mono.DCE,
	}
}

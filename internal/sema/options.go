package sema

// Options carries the resource budget for one unit's inference phase.
// Budgets are the primary defense against adversarial or accidentally
// recursive generic code: each cap aborts the phase with a structured
// diagnostic instead of exhausting memory.
type Options struct {
	// MaxTypeVars limits inference variables across the whole unit.
	MaxTypeVars int
	// MaxConstraints limits the constraint set per declaration.
	MaxConstraints int
	// MaxSteps limits expression visits per declaration.
	MaxSteps int
	// MaxDiagnostics caps each declaration's bag.
	MaxDiagnostics int
}

// DefaultOptions returns budgets generous enough for real programs while
// still bounding pathological ones.
func DefaultOptions() Options {
	return Options{
		MaxTypeVars:    1 << 20,
		MaxConstraints: 1 << 18,
		MaxSteps:       1 << 20,
		MaxDiagnostics: 256,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxTypeVars <= 0 {
		o.MaxTypeVars = def.MaxTypeVars
	}
	if o.MaxConstraints <= 0 {
		o.MaxConstraints = def.MaxConstraints
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = def.MaxSteps
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = def.MaxDiagnostics
	}
	return o
}

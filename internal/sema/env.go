package sema

import (
	"github.com/benbjohnson/immutable"

	"tern/internal/types"
)

// Env is the lexical type environment: a persistent map from binding name
// to type. Persistence makes scope handling trivial: entering a block
// keeps the parent's Env value, and shadowing is a plain Set.
type Env struct {
	m *immutable.Map[string, types.TypeID]
}

// NewEnv returns an empty environment.
func NewEnv() Env {
	return Env{m: immutable.NewMap[string, types.TypeID](nil)}
}

// Bind returns a new environment with name bound to id.
func (e Env) Bind(name string, id types.TypeID) Env {
	return Env{m: e.m.Set(name, id)}
}

// Lookup resolves a binding.
func (e Env) Lookup(name string) (types.TypeID, bool) {
	return e.m.Get(name)
}

package project

import (
	"fmt"
	"strings"

	"tern/internal/traits"
	"tern/internal/types"
)

// RegisterImpls installs the manifest's [[impl]] facts into a registry.
// Must run before Freeze.
func RegisterImpls(m *Manifest, reg *traits.Registry, in *types.Interner) error {
	for _, impl := range m.Impls {
		id, err := resolveTypeName(in, impl.Type)
		if err != nil {
			return err
		}
		reg.Register(impl.Bound, id)
	}
	return nil
}

// resolveTypeName maps surface type syntax to an interned type. The
// manifest supports primitives, `T[]` arrays, and bare named types.
func resolveTypeName(in *types.Interner, name string) (types.TypeID, error) {
	name = strings.TrimSpace(name)
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		inner, err := resolveTypeName(in, elem)
		if err != nil {
			return types.NoTypeID, err
		}
		return in.MakeArray(inner), nil
	}

	b := in.Builtins()
	switch name {
	case "int":
		return b.Int, nil
	case "float":
		return b.Float, nil
	case "bool":
		return b.Bool, nil
	case "string":
		return b.String, nil
	case "unit":
		return b.Unit, nil
	case "":
		return types.NoTypeID, fmt.Errorf("project: empty type name in [[impl]]")
	}
	if strings.ContainsAny(name, "<>()&, ") {
		return types.NoTypeID, fmt.Errorf("project: unsupported type syntax %q in [[impl]]", name)
	}
	return in.MakeNamed(name, nil), nil
}

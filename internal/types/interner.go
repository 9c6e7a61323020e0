package types

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fortio.org/safecast"

	"tern/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unknown TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	Float   TypeID
	String  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
//
// Unlike most compiler state, the interner is shared across concurrently
// inferred declarations and during multi-worker specialization, so every
// operation is guarded. Reads vastly outnumber writes once the unit's
// types have been seen.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[Type]TypeID
	args     [][]TypeID
	argIndex map[string]ArgsID
	strings  *source.Interner
	builtins Builtins
	nextVar  VarID
}

// NewInterner constructs an interner seeded with built-in primitives.
// Names of named types resolve through the given string interner.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		index:    make(map[Type]TypeID, 64),
		argIndex: make(map[string]ArgsID, 16),
		strings:  strings,
	}
	in.args = append(in.args, nil) // reserve NoArgsID
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Strings exposes the identifier interner used for type names.
func (in *Interner) Strings() *source.Interner {
	return in.strings
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor without consulting the map. Callers hold mu
// (except during construction). Slot 0 holds the Invalid descriptor so that
// NoTypeID never resolves.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: TypeID overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len returns the number of interned types.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.types)
}

// InternArgs deduplicates an ordered TypeID sequence.
func (in *Interner) InternArgs(ids []TypeID) ArgsID {
	if len(ids) == 0 {
		return NoArgsID
	}
	key := argsKey(ids)
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.argIndex[key]; ok {
		return id
	}
	lenArgs, err := safecast.Conv[uint32](len(in.args))
	if err != nil {
		panic(fmt.Errorf("types: ArgsID overflow: %w", err))
	}
	id := ArgsID(lenArgs)
	cp := make([]TypeID, len(ids))
	copy(cp, ids)
	in.args = append(in.args, cp)
	in.argIndex[key] = id
	return id
}

// Args returns the sequence behind an ArgsID. Callers must not modify the
// returned slice.
func (in *Interner) Args(id ArgsID) []TypeID {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.args) {
		return nil
	}
	return in.args[id]
}

func argsKey(ids []TypeID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// FreshVar allocates a new inference variable and returns its TypeID.
func (in *Interner) FreshVar() TypeID {
	in.mu.Lock()
	in.nextVar++
	v := in.nextVar
	in.mu.Unlock()
	return in.Intern(Type{Kind: KindVar, Var: v})
}

// VarCount returns the number of variables allocated so far, used to
// enforce the type-variable budget.
func (in *Interner) VarCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return int(in.nextVar)
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes an array of elem.
func (in *Interner) MakeArray(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem})
}

// MakeRef describes &T or &mut T depending on the mutable flag.
func (in *Interner) MakeRef(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindRef, Elem: elem, Mutable: mutable})
}

// MakeTuple describes an ordered tuple.
func (in *Interner) MakeTuple(elems []TypeID) TypeID {
	return in.Intern(Type{Kind: KindTuple, Args: in.InternArgs(elems)})
}

// MakeFunc describes a function type with ordered params and a result.
func (in *Interner) MakeFunc(params []TypeID, ret TypeID) TypeID {
	return in.Intern(Type{Kind: KindFunc, Args: in.InternArgs(params), Ret: ret})
}

// MakeNamed describes a (possibly generic) nominal type instance.
func (in *Interner) MakeNamed(name string, args []TypeID) TypeID {
	return in.Intern(Type{
		Kind: KindNamed,
		Name: in.strings.Intern(name),
		Args: in.InternArgs(args),
	})
}

// MakeParam describes the rigid generic parameter name of owner.
func (in *Interner) MakeParam(owner OwnerID, name string) TypeID {
	return in.Intern(Type{
		Kind:  KindParam,
		Name:  in.strings.Intern(name),
		Owner: owner,
	})
}

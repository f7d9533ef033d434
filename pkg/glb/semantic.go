package glb

// SemanticTable maps attribute semantic names to engine vertex slots.
type SemanticTable map[string]int

// DefaultSemantics returns the engine's standard slot assignment.
func DefaultSemantics() SemanticTable {
	return SemanticTable{
		"ATTR0":    0,
		"POSITION": 0,

		"ATTR1":   1,
		"COLOR":   1,
		"COLOR_0": 1,

		"ATTR2":      2,
		"TEXCOORD":   2,
		"TEXCOORD_0": 2,

		"ATTR3":  3,
		"NORMAL": 3,

		"ATTR4":      4,
		"TEXCOORD_1": 4,
	}
}

// Slot returns the vertex slot for a semantic.
func (t SemanticTable) Slot(semantic string) (int, bool) {
	slot, ok := t[semantic]
	return slot, ok
}

// With returns a copy of t with overrides applied.
func (t SemanticTable) With(overrides map[string]int) SemanticTable {
	out := make(SemanticTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// SkipSet holds semantics excluded from interleaving.
type SkipSet map[string]struct{}

// DefaultSkipSet returns the semantics the engine never uploads.
func DefaultSkipSet() SkipSet {
	return NewSkipSet("TANGENT")
}

// NewSkipSet builds a skip set from names.
func NewSkipSet(names ...string) SkipSet {
	s := make(SkipSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether semantic is skipped.
func (s SkipSet) Contains(semantic string) bool {
	_, ok := s[semantic]
	return ok
}

package fact

import "reflect"

// Memory is the session's working memory: every fact known at a moment
// during an evaluation, type-indexed for O(1) exact-type lookups.
type Memory struct {
	all       map[string]Fact
	typeIndex map[reflect.Type][]Fact
	derived   map[string]struct{}
}

// NewMemory returns an empty working memory.
func NewMemory() *Memory {
	return &Memory{
		all:       make(map[string]Fact),
		typeIndex: make(map[reflect.Type][]Fact),
		derived:   make(map[string]struct{}),
	}
}

// Add inserts f into working memory. It returns true iff f was not already
// present (by structural equality), in which case it is also appended to
// the bucket for its concrete type.
func (m *Memory) Add(f Fact) (bool, error) {
	digest, err := Digest(f)
	if err != nil {
		return false, err
	}
	if _, exists := m.all[digest]; exists {
		return false, nil
	}
	m.all[digest] = f
	t := reflect.TypeOf(f)
	m.typeIndex[t] = append(m.typeIndex[t], f)
	return true, nil
}

// MarkDerived records that f was produced by a rule rather than
// supplied by the caller.
func (m *Memory) MarkDerived(f Fact) error {
	digest, err := Digest(f)
	if err != nil {
		return err
	}
	m.derived[digest] = struct{}{}
	return nil
}

// Contains reports whether a structurally equal fact is already stored.
func (m *Memory) Contains(f Fact) (bool, error) {
	digest, err := Digest(f)
	if err != nil {
		return false, err
	}
	_, ok := m.all[digest]
	return ok, nil
}

// All returns every fact currently in working memory. The returned slice is
// a fresh snapshot; callers may iterate it while mutating Memory.
func (m *Memory) All() []Fact {
	out := make([]Fact, 0, len(m.all))
	for _, f := range m.all {
		out = append(out, f)
	}
	return out
}

// Size returns the number of distinct facts in working memory.
func (m *Memory) Size() int {
	return len(m.all)
}

// Derived returns the subset of All() that was produced by rules.
func (m *Memory) Derived() []Fact {
	out := make([]Fact, 0, len(m.derived))
	for digest := range m.derived {
		out = append(out, m.all[digest])
	}
	return out
}

// OfType returns every stored fact whose concrete type is exactly T. When T
// is an interface type the exact-type index cannot answer the query, so it
// falls back to a linear scan with a runtime instance test.
func OfType[T any](m *Memory) []T {
	var zero T
	wantType := reflect.TypeOf(&zero).Elem()

	if wantType.Kind() != reflect.Interface {
		bucket := m.typeIndex[wantType]
		out := make([]T, 0, len(bucket))
		for _, f := range bucket {
			out = append(out, f.(T))
		}
		return out
	}
	return FilterByInstance[T](m)
}

// OfReflectType is the non-generic counterpart of OfType, used by callers
// (the fallback producer loop) that only know a producer's input type at
// runtime via reflect.Type.
func (m *Memory) OfReflectType(t reflect.Type) []Fact {
	if t.Kind() != reflect.Interface {
		bucket := m.typeIndex[t]
		out := make([]Fact, len(bucket))
		copy(out, bucket)
		return out
	}
	out := make([]Fact, 0)
	for _, f := range m.all {
		ft := reflect.TypeOf(f)
		if ft != nil && ft.Implements(t) {
			out = append(out, f)
		}
	}
	return out
}

// FilterByInstance scans all facts and returns those assignable to T,
// regardless of whether T is a concrete type or an interface/supertype.
func FilterByInstance[T any](m *Memory) []T {
	var zero T
	wantType := reflect.TypeOf(&zero).Elem()

	out := make([]T, 0)
	for _, f := range m.all {
		ft := reflect.TypeOf(f)
		if ft == nil {
			continue
		}
		if ft == wantType || (wantType.Kind() == reflect.Interface && ft.Implements(wantType)) {
			out = append(out, f.(T))
		}
	}
	return out
}

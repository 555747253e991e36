package sets

// Set is a simple generic hash set for comparable keys.
// Anchor slug lookups only need membership, so the API stays minimal:
// no reflection, no iteration helpers beyond range.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set. Re-adding an existing value is a no-op,
// which is how duplicate heading slugs collapse to set-union semantics.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of distinct values.
func (s Set[T]) Len() int { return len(s) }

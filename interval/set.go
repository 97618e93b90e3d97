package interval

import "sort"

// Set is an unordered collection of distinct Features.
type Set map[Feature]struct{}

// NewSet creates a Set holding fs.
func NewSet(fs ...Feature) Set {
	s := make(Set, len(fs))
	for _, f := range fs {
		s[f] = struct{}{}
	}
	return s
}

// Add inserts f.
func (s Set) Add(f Feature) { s[f] = struct{}{} }

// Remove deletes f, if present.
func (s Set) Remove(f Feature) { delete(s, f) }

// Has checks whether f is in s.
func (s Set) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

// Clone returns a copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for f := range s {
		c[f] = struct{}{}
	}
	return c
}

// Sorted returns the elements of s in Feature.Less order.
func (s Set) Sorted() []Feature {
	fs := make([]Feature, 0, len(s))
	for f := range s {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Less(fs[j]) })
	return fs
}

// Intersect returns the elements in both s and o.
func (s Set) Intersect(o Set) Set {
	if len(o) < len(s) {
		s, o = o, s
	}
	r := Set{}
	for f := range s {
		if o.Has(f) {
			r.Add(f)
		}
	}
	return r
}

// Union returns the elements in s or o.
func (s Set) Union(o Set) Set {
	r := s.Clone()
	for f := range o {
		r.Add(f)
	}
	return r
}

// Difference returns the elements of s that aren't in o.
func (s Set) Difference(o Set) Set {
	r := Set{}
	for f := range s {
		if !o.Has(f) {
			r.Add(f)
		}
	}
	return r
}

// Equal checks whether s and o hold the same elements.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for f := range s {
		if !o.Has(f) {
			return false
		}
	}
	return true
}

// Package filter evaluates range filters over entity attributes.
//
// A [Set] holds three independent ranges, one per numeric attribute. Each
// range has a fixed lower bound (the attribute's global minimum over the
// dataset) and a user-adjustable upper bound that starts at the global
// maximum. Matching is a pure predicate: it depends only on the attribute
// values and the current bounds, never on layout state, and it has no
// effect on positions, radii, or colors.
package filter

import "math"

// AttrCount is the number of filterable attributes.
const AttrCount = 3

// Attr is one filter dimension.
type Attr struct {
	Name string  // display name, taken from the dataset column
	Min  float64 // fixed lower bound (global minimum)
	Ceil float64 // fixed upper limit for Max (global maximum)
	Max  float64 // current user-selected upper bound
}

// Set holds the three filter attributes shared by all layout groups.
// The zero value is not usable; use NewSet.
type Set struct {
	attrs [AttrCount]Attr
}

// NewSet creates a filter set with the given attribute names and global
// [min, max] bounds. Every upper bound starts at its ceiling, so initially
// everything matches.
func NewSet(names [AttrCount]string, mins, maxes [AttrCount]float64) *Set {
	var s Set
	for i := range s.attrs {
		s.attrs[i] = Attr{Name: names[i], Min: mins[i], Ceil: maxes[i], Max: maxes[i]}
	}
	return &s
}

// Attr returns the current state of attribute i. Out-of-range indices
// return the zero Attr.
func (s *Set) Attr(i int) Attr {
	if i < 0 || i >= AttrCount {
		return Attr{}
	}
	return s.attrs[i]
}

// Attrs returns the current state of all three attributes.
func (s *Set) Attrs() [AttrCount]Attr { return s.attrs }

// SetMax updates the upper bound of attribute i, clamped to the
// ceiling. Values below Min are kept as-is: the range becomes empty and
// nothing matches on that attribute. Out-of-range indices are ignored.
func (s *Set) SetMax(i int, v float64) {
	if i < 0 || i >= AttrCount {
		return
	}
	a := &s.attrs[i]
	if math.IsNaN(v) {
		return
	}
	if v > a.Ceil {
		v = a.Ceil
	}
	a.Max = v
}

// Reset restores every upper bound to its ceiling.
func (s *Set) Reset() {
	for i := range s.attrs {
		s.attrs[i].Max = s.attrs[i].Ceil
	}
}

// Matches reports whether all three values fall inside their ranges.
// NaN values never match.
func (s *Set) Matches(values [AttrCount]float64) bool {
	for i, v := range values {
		a := s.attrs[i]
		if math.IsNaN(v) || v < a.Min || v > a.Max {
			return false
		}
	}
	return true
}

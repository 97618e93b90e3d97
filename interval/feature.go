package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Strand is the orientation of a feature.
type Strand uint8

const (
	// Forward is the '+' strand.  Unstranded features ('.', '?') are also
	// stored as Forward.
	Forward Strand = iota
	// Reverse is the '-' strand.
	Reverse
)

// String implements fmt.Stringer.
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// ParseStrand converts a GFF3 strand column.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+", ".", "?":
		return Forward, nil
	case "-":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("interval.ParseStrand: unknown strand %q", s)
}

// Column selects which classification id of a Feature a Filter tests.
type Column uint8

const (
	// TypeColumn tests Feature.Type.
	TypeColumn Column = 1
	// OrderColumn tests Feature.Order.
	OrderColumn Column = 2
	// SuperfamilyColumn tests Feature.Superfamily.
	SuperfamilyColumn Column = 3
)

// String implements fmt.Stringer.
func (c Column) String() string {
	switch c {
	case TypeColumn:
		return "type"
	case OrderColumn:
		return "order"
	case SuperfamilyColumn:
		return "superfamily"
	}
	return fmt.Sprintf("column(%d)", uint8(c))
}

// Feature is one annotated span.  It is a plain value: two Features are the
// same element of a Set iff all fields are equal.
type Feature struct {
	// Start is the 0-based first position.
	Start uint32
	// End is one past the last position.
	End    uint32
	Strand Strand
	// Type is the feature-type id, e.g. the id of "gene".
	Type int
	// Order and Superfamily are transposable-element classification ids.  They
	// are 0 for other feature types, and for elements whose attributes did not
	// name them.
	Order       int
	Superfamily int
}

// Len returns the number of bases covered by f.
func (f Feature) Len() int { return int(f.End) - int(f.Start) }

// Attr returns the classification id stored in the given column.
func (f Feature) Attr(col Column) int {
	switch col {
	case TypeColumn:
		return f.Type
	case OrderColumn:
		return f.Order
	case SuperfamilyColumn:
		return f.Superfamily
	}
	panic(col)
}

// Less orders features by (Start, End, Strand, Type, Order, Superfamily).
func (f Feature) Less(g Feature) bool {
	if f.Start != g.Start {
		return f.Start < g.Start
	}
	if f.End != g.End {
		return f.End < g.End
	}
	if f.Strand != g.Strand {
		return f.Strand < g.Strand
	}
	if f.Type != g.Type {
		return f.Type < g.Type
	}
	if f.Order != g.Order {
		return f.Order < g.Order
	}
	return f.Superfamily < g.Superfamily
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	return fmt.Sprintf("[%d,%d)%v t%d/o%d/s%d", f.Start, f.End, f.Strand, f.Type, f.Order, f.Superfamily)
}

// Filter selects features by one classification column and, optionally,
// strand.  The zero Filter is invalid; Column must be set.
type Filter struct {
	Column Column
	ID     int
	// Stranded restricts matches to features on Strand.
	Stranded bool
	Strand   Strand
}

// Validate checks that flt names a classification column and, if stranded, a
// known strand.
func (flt Filter) Validate() error {
	switch flt.Column {
	case TypeColumn, OrderColumn, SuperfamilyColumn:
	default:
		return errors.E(errors.Invalid, fmt.Sprintf("interval: filter %+v has no valid column", flt))
	}
	if flt.Stranded && flt.Strand != Forward && flt.Strand != Reverse {
		return errors.E(errors.Invalid, fmt.Sprintf("interval: filter %+v has an unknown strand", flt))
	}
	return nil
}

// Match checks whether f passes the filter.  flt must be valid.
func (flt Filter) Match(f Feature) bool {
	if f.Attr(flt.Column) != flt.ID {
		return false
	}
	return !flt.Stranded || f.Strand == flt.Strand
}

// WithStrand returns a copy of flt restricted to strand s.
func (flt Filter) WithStrand(s Strand) Filter {
	flt.Stranded = true
	flt.Strand = s
	return flt
}

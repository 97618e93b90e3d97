package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// MaxThreshold is the largest meaningful reciprocal-overlap percentage.
const MaxThreshold = 100.0

// OverlapBases returns the number of bases shared by a and b.  It is
// symmetric.
func OverlapBases(a, b Feature) int {
	start, end := a.Start, a.End
	if b.Start > start {
		start = b.Start
	}
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return int(end - start)
}

// OverlapPercent returns the percentage of a covered by b.  It is not
// symmetric.
func OverlapPercent(a, b Feature) float64 {
	n := a.Len()
	if n <= 0 {
		return 0
	}
	return float64(OverlapBases(a, b)) / float64(n) * 100.0
}

// CheckThreshold validates a reciprocal-overlap percentage.  Values above 100
// are clamped to 100.  Values below 1 are rejected: they're almost always a
// fraction passed where a percentage was expected.
func CheckThreshold(p float64) (float64, error) {
	if p > MaxThreshold {
		log.Error.Printf("interval: overlap percentage %v > %v, falling back to %v", p, MaxThreshold, MaxThreshold)
		return MaxThreshold, nil
	}
	if !(p >= 1) {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("interval: overlap threshold %v must be a percentage in [1,100], not a fraction", p))
	}
	return p, nil
}

// ReciprocalOverlap checks whether a and b each cover at least p percent of
// the other.
func ReciprocalOverlap(a, b Feature, p float64) (bool, error) {
	p, err := CheckThreshold(p)
	if err != nil {
		return false, err
	}
	return Reciprocal(a, b, p), nil
}

// Reciprocal is ReciprocalOverlap without threshold validation.  p must have
// been passed through CheckThreshold.
func Reciprocal(a, b Feature, p float64) bool {
	n := OverlapBases(a, b)
	if n == 0 {
		return false
	}
	ab := float64(n) / float64(a.Len()) * 100.0
	ba := float64(n) / float64(b.Len()) * 100.0
	return ab >= p && ba >= p
}

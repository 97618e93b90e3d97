package interval

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func span(start, end uint32) Feature { return Feature{Start: start, End: end} }

func TestOverlapBases(t *testing.T) {
	tests := []struct {
		a, b Feature
		want int
	}{
		{span(0, 1000), span(50, 1050), 950},
		{span(50, 1050), span(0, 1000), 950},
		{span(0, 10), span(10, 20), 0},
		{span(0, 10), span(20, 30), 0},
		{span(0, 100), span(10, 20), 10},
		{span(5, 6), span(5, 6), 1},
	}
	for _, test := range tests {
		expect.EQ(t, OverlapBases(test.a, test.b), test.want, "a=%v b=%v", test.a, test.b)
	}
}

func TestOverlapPercent(t *testing.T) {
	expect.EQ(t, OverlapPercent(span(0, 1000), span(50, 1050)), 95.0)
	expect.EQ(t, OverlapPercent(span(10, 20), span(0, 100)), 100.0)
	expect.EQ(t, OverlapPercent(span(0, 100), span(10, 20)), 10.0)
	expect.EQ(t, OverlapPercent(span(0, 10), span(10, 20)), 0.0)
}

func TestReciprocalOverlap(t *testing.T) {
	a, b := span(0, 1000), span(50, 1050)
	ok, err := ReciprocalOverlap(a, b, 95)
	require.NoError(t, err)
	expect.True(t, ok)
	ok, err = ReciprocalOverlap(b, a, 95)
	require.NoError(t, err)
	expect.True(t, ok)
	ok, err = ReciprocalOverlap(a, b, 96)
	require.NoError(t, err)
	expect.False(t, ok)

	// Containment: the short feature is fully covered, the long one isn't.
	ok, err = ReciprocalOverlap(span(0, 100), span(10, 20), 50)
	require.NoError(t, err)
	expect.False(t, ok)

	ok, err = ReciprocalOverlap(span(0, 10), span(10, 20), 1)
	require.NoError(t, err)
	expect.False(t, ok)
}

func TestCheckThreshold(t *testing.T) {
	p, err := CheckThreshold(150)
	require.NoError(t, err)
	expect.EQ(t, p, 100.0)

	p, err = CheckThreshold(90)
	require.NoError(t, err)
	expect.EQ(t, p, 90.0)

	p, err = CheckThreshold(1)
	require.NoError(t, err)
	expect.EQ(t, p, 1.0)

	for _, bad := range []float64{0.95, 0, -3} {
		_, err = CheckThreshold(bad)
		require.Error(t, err)
		expect.True(t, errors.Is(errors.Invalid, err), "p=%v err=%v", bad, err)
	}

	// Clamped thresholds still behave: only identical spans match at 100%.
	ok, err := ReciprocalOverlap(span(0, 100), span(0, 100), 250)
	require.NoError(t, err)
	expect.True(t, ok)
	ok, err = ReciprocalOverlap(span(0, 100), span(0, 101), 250)
	require.NoError(t, err)
	expect.False(t, ok)
}

func TestOverlapProperties(t *testing.T) {
	var spans []Feature
	for _, start := range []uint32{0, 3, 10, 40, 95} {
		for _, n := range []uint32{1, 5, 30, 60, 100} {
			spans = append(spans, span(start, start+n))
		}
	}
	for _, a := range spans {
		for _, b := range spans {
			expect.EQ(t, OverlapBases(a, b), OverlapBases(b, a), "a=%v b=%v", a, b)
			for _, p := range []float64{1, 50, 90, 100} {
				ab, err := ReciprocalOverlap(a, b, p)
				require.NoError(t, err)
				ba, err := ReciprocalOverlap(b, a, p)
				require.NoError(t, err)
				expect.EQ(t, ab, ba, "a=%v b=%v p=%v", a, b, p)
			}
			// Shrinking b never increases the share of a it covers.
			for shrink := uint32(1); 2*shrink < uint32(b.Len()); shrink++ {
				inner := span(b.Start+shrink, b.End-shrink)
				expect.True(t, OverlapPercent(a, b) >= OverlapPercent(a, inner),
					"a=%v b=%v inner=%v", a, b, inner)
			}
		}
	}
}

package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func buildIndex(fs ...Feature) *Index {
	var b Builder
	for _, f := range fs {
		b.Insert(f)
	}
	return b.Build()
}

func TestIndexSearch(t *testing.T) {
	const gene, exon = 0, 1
	gene1 := Feature{Start: 100, End: 200, Type: gene}
	gene2 := Feature{Start: 150, End: 300, Strand: Reverse, Type: gene}
	gene3 := Feature{Start: 500, End: 600, Type: gene}
	exon1 := Feature{Start: 120, End: 130, Type: exon}
	idx := buildIndex(gene3, gene2, exon1, gene1)

	expect.EQ(t, idx.Len(), 4)
	expect.EQ(t, idx.Min(), uint32(100))
	expect.EQ(t, idx.Max(), uint32(600))

	genes := Filter{Column: TypeColumn, ID: gene}
	assert.Equal(t, []Feature{gene1, gene2}, idx.Search(0, 250, genes))
	assert.Equal(t, []Feature{gene2}, idx.Search(200, 250, genes))
	// Half-open: a query ending where a feature starts doesn't hit it.
	assert.Empty(t, idx.Search(0, 100, genes))
	assert.Empty(t, idx.Search(300, 500, genes))
	assert.Equal(t, []Feature{gene3}, idx.Search(599, 1000, genes))

	assert.Equal(t, []Feature{gene1, gene3}, idx.Search(0, 1000, genes.WithStrand(Forward)))
	assert.Equal(t, []Feature{gene2}, idx.Search(0, 1000, genes.WithStrand(Reverse)))
	assert.Equal(t, []Feature{exon1}, idx.Search(0, 1000, Filter{Column: TypeColumn, ID: exon}))
}

func TestIndexFilterOrder(t *testing.T) {
	a := Feature{Start: 10, End: 20}
	b := Feature{Start: 10, End: 50}
	c := Feature{Start: 5, End: 8}
	idx := buildIndex(a, b, c, a)
	// Start ascending, then insertion order; duplicates are retained.
	assert.Equal(t, []Feature{c, a, b, a}, idx.Filter(Filter{Column: TypeColumn}))
	assert.Equal(t, []Feature{a, b, a}, idx.Search(12, 13, Filter{Column: TypeColumn}))
}

func TestIndexSet(t *testing.T) {
	te := Feature{Start: 10, End: 20, Type: 2, Order: 1, Superfamily: 3}
	te2 := Feature{Start: 30, End: 40, Type: 2, Order: 1, Superfamily: 4}
	idx := buildIndex(te, te2, te)

	s := idx.Set(Filter{Column: OrderColumn, ID: 1})
	expect.EQ(t, len(s), 2)
	expect.True(t, s.Has(te))

	// Modifying the returned set must not affect later calls.
	s.Remove(te)
	s2 := idx.Set(Filter{Column: OrderColumn, ID: 1})
	expect.EQ(t, len(s2), 2)
	expect.True(t, s2.Has(te))

	expect.EQ(t, len(idx.Set(Filter{Column: SuperfamilyColumn, ID: 4})), 1)
	expect.EQ(t, len(idx.Set(Filter{Column: SuperfamilyColumn, ID: 9})), 0)
}

func TestEmptyIndex(t *testing.T) {
	idx := buildIndex()
	expect.EQ(t, idx.Len(), 0)
	expect.EQ(t, idx.Min(), uint32(0))
	expect.EQ(t, idx.Max(), uint32(0))
	assert.Empty(t, idx.Search(0, 100, Filter{Column: TypeColumn}))
	expect.EQ(t, len(idx.Set(Filter{Column: TypeColumn})), 0)
}

func TestSetOps(t *testing.T) {
	a, b, c := span(0, 1), span(1, 2), span(2, 3)
	x := NewSet(a, b)
	y := NewSet(b, c)
	expect.True(t, x.Intersect(y).Equal(NewSet(b)))
	expect.True(t, x.Union(y).Equal(NewSet(a, b, c)))
	expect.True(t, x.Difference(y).Equal(NewSet(a)))
	assert.Equal(t, []Feature{a, b, c}, NewSet(c, a, b).Sorted())
}

func TestParseStrand(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Strand
	}{{"+", Forward}, {"-", Reverse}, {".", Forward}, {"?", Forward}} {
		s, err := ParseStrand(test.in)
		assert.NoError(t, err)
		expect.EQ(t, s, test.want)
	}
	_, err := ParseStrand("x")
	assert.Error(t, err)
}

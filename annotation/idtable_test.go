package annotation

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
)

func TestIDTable(t *testing.T) {
	tab := NewIDTable()
	expect.EQ(t, tab.GetOrAssign("gene"), 0)
	expect.EQ(t, tab.GetOrAssign("exon"), 1)
	expect.EQ(t, tab.GetOrAssign("gene"), 0)
	expect.EQ(t, tab.GetOrAssign("mrna"), 2)
	expect.EQ(t, tab.Len(), 3)
	expect.EQ(t, tab.Labels(), []string{"gene", "exon", "mrna"})

	id, ok := tab.ID("exon")
	expect.True(t, ok)
	expect.EQ(t, id, 1)
	_, ok = tab.ID("cds")
	expect.False(t, ok)
	expect.EQ(t, tab.Len(), 3)

	label, err := tab.TryGetLabel(2)
	expect.NoError(t, err)
	expect.EQ(t, label, "mrna")

	_, err = tab.TryGetLabel(3)
	expect.True(t, errors.Is(errors.NotExist, err), "err=%v", err)
	_, err = tab.TryGetLabel(-1)
	expect.True(t, errors.Is(errors.Invalid, err), "err=%v", err)
}

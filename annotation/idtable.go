package annotation

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// IDTable interns labels (feature types, element orders, superfamilies) as
// dense integer ids.  Ids are assigned from 0 in the order labels are first
// seen, and never change.  IDTable is not thread-safe; a Store only writes to
// its tables while loading.
type IDTable struct {
	ids    map[string]int
	labels []string
}

// NewIDTable creates an empty table.
func NewIDTable() *IDTable {
	return &IDTable{ids: map[string]int{}}
}

// GetOrAssign returns the id of label, assigning the next free id if label
// is new.
func (t *IDTable) GetOrAssign(label string) int {
	if id, ok := t.ids[label]; ok {
		return id
	}
	id := len(t.labels)
	t.ids[label] = id
	t.labels = append(t.labels, label)
	return id
}

// ID looks up label without assigning.
func (t *IDTable) ID(label string) (int, bool) {
	id, ok := t.ids[label]
	return id, ok
}

// TryGetLabel returns the label with the given id.  It fails with
// errors.NotExist if the id was never assigned, and errors.Invalid if it is
// negative.
func (t *IDTable) TryGetLabel(id int) (string, error) {
	if id < 0 {
		return "", errors.E(errors.Invalid, fmt.Sprintf("idtable: type error: negative id %d", id))
	}
	if id >= len(t.labels) {
		return "", errors.E(errors.NotExist, fmt.Sprintf("idtable: id %d not assigned (%d labels)", id, len(t.labels)))
	}
	return t.labels[id], nil
}

// Len returns the number of labels.
func (t *IDTable) Len() int { return len(t.labels) }

// Labels returns the labels in id order.  The caller must not modify the
// result.
func (t *IDTable) Labels() []string { return t.labels }

package grouping

import (
	"strconv"
	"strings"

	"github.com/peekknuf/colstats/internal/source"
)

// Key identifies a group: the raw cells of the key columns, in configured order. A key
// column absent from a row is left out of that row's key rather than rejected, so such
// rows land in a group with a shorter key.
type Key []source.Cell

// KeyOf reads names from row in order, skipping names the row does not have.
func KeyOf(row source.Row, names []string) Key {
	key := make(Key, 0, len(names))
	for _, name := range names {
		if c, ok := row.Get(name); ok {
			key = append(key, c)
		}
	}
	return key
}

// ID returns an encoding of k that differs for any two distinct keys.
func (k Key) ID() string {
	var b strings.Builder
	for i, c := range k {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.Null {
			b.WriteString("null")
			continue
		}
		b.WriteString(strconv.Quote(c.Value))
	}
	return b.String()
}

// String renders k as a tuple, e.g. ("x", "1").
func (k Key) String() string {
	return "(" + k.ID() + ")"
}

// KeyFrom builds a key of non-null cells.
func KeyFrom(values ...string) Key {
	key := make(Key, len(values))
	for i, v := range values {
		key[i] = source.Value(v)
	}
	return key
}

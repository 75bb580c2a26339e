package source

// Cell is one raw value taken from a row source. A null cell marks a field the source
// had no value for at all (a record shorter than its header), which is distinct from an
// empty string only for display; both count as missing.
type Cell struct {
	Value string
	Null  bool
}

// Value returns a non-null cell holding s.
func Value(s string) Cell { return Cell{Value: s} }

// Null returns the null cell.
func Null() Cell { return Cell{Null: true} }

func (c Cell) String() string {
	if c.Null {
		return "null"
	}
	return c.Value
}

// Field is a column name paired with its cell.
type Field struct {
	Name string
	Cell Cell
}

// Row is one record in header order. Column names are unique within a row.
type Row []Field

// RowOf builds a row from alternating name, value arguments. A repeated name
// overwrites the earlier value in place. A trailing name without a value is null.
func RowOf(pairs ...string) Row {
	var r Row
	for i := 0; i < len(pairs); i += 2 {
		c := Null()
		if i+1 < len(pairs) {
			c = Value(pairs[i+1])
		}
		r.Set(pairs[i], c)
	}
	return r
}

// Get returns the cell stored under name.
func (r Row) Get(name string) (Cell, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Cell, true
		}
	}
	return Cell{}, false
}

// Set stores c under name, replacing an existing field of that name.
func (r *Row) Set(name string, c Cell) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Cell = c
			return
		}
	}
	*r = append(*r, Field{Name: name, Cell: c})
}

// Table is a fully materialized row source.
type Table struct {
	Path    string
	Size    int64
	Columns []string
	Rows    []Row

	// Ragged counts records whose field count differed from the header.
	Ragged int
}

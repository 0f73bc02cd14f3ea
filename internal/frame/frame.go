package frame

import (
	"fmt"
	"strconv"
)

// Kind identifies the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	String
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a single named column. Exactly one of Floats or Strings is
// populated, according to Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Copy returns a deep copy of the column.
func (c *Column) Copy() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = append([]float64(nil), c.Floats...)
	} else {
		out.Strings = append([]string(nil), c.Strings...)
	}
	return out
}

// Frame is an ordered collection of equally sized columns, optionally keyed
// by a numeric sample index.
type Frame struct {
	IndexName string
	Index     []float64
	HasIndex  bool
	Columns   []*Column
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{}
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	if f.HasIndex {
		return len(f.Index)
	}
	if len(f.Columns) > 0 {
		return f.Columns[0].Len()
	}
	return 0
}

// NumCols returns the number of data columns, excluding the index.
func (f *Frame) NumCols() int {
	return len(f.Columns)
}

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool {
	return f.NumRows() == 0 || f.NumCols() == 0
}

// Column returns the named column, if present.
func (f *Frame) Column(name string) (*Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.Column(name)
	return ok
}

// ColumnNames returns the column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		names = append(names, c.Name)
	}
	return names
}

// AddNumeric appends a numeric column.
func (f *Frame) AddNumeric(name string, vals []float64) error {
	return f.addColumn(&Column{Name: name, Kind: Numeric, Floats: vals})
}

// AddString appends a string column.
func (f *Frame) AddString(name string, vals []string) error {
	return f.addColumn(&Column{Name: name, Kind: String, Strings: vals})
}

func (f *Frame) addColumn(c *Column) error {
	if f.HasColumn(c.Name) {
		return fmt.Errorf("column %q already exists", c.Name)
	}
	if (f.HasIndex || len(f.Columns) > 0) && c.Len() != f.NumRows() {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.Name, c.Len(), f.NumRows())
	}
	f.Columns = append(f.Columns, c)
	return nil
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := &Frame{IndexName: f.IndexName, HasIndex: f.HasIndex}
	if f.HasIndex {
		out.Index = append([]float64(nil), f.Index...)
	}
	out.Columns = make([]*Column, 0, len(f.Columns))
	for _, c := range f.Columns {
		out.Columns = append(out.Columns, c.Copy())
	}
	return out
}

// SetIndex promotes the named column to be the frame's index, casting its
// values to float64. The column is removed from the data columns.
func (f *Frame) SetIndex(name string) error {
	idx := -1
	for i, c := range f.Columns {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("column %q not found", name)
	}

	col := f.Columns[idx]
	values := make([]float64, col.Len())
	if col.Kind == Numeric {
		copy(values, col.Floats)
	} else {
		for i, s := range col.Strings {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("cannot cast index value %q to float64", s)
			}
			values[i] = v
		}
	}

	f.Columns = append(f.Columns[:idx], f.Columns[idx+1:]...)
	f.Index = values
	f.IndexName = name
	f.HasIndex = true
	return nil
}

// FilterRows returns a new frame containing only the rows where keep is true.
func (f *Frame) FilterRows(keep []bool) (*Frame, error) {
	if len(keep) != f.NumRows() {
		return nil, fmt.Errorf("keep mask has %d entries, frame has %d rows", len(keep), f.NumRows())
	}

	out := &Frame{IndexName: f.IndexName, HasIndex: f.HasIndex}
	if f.HasIndex {
		for i, k := range keep {
			if k {
				out.Index = append(out.Index, f.Index[i])
			}
		}
	}
	for _, c := range f.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		for i, k := range keep {
			if !k {
				continue
			}
			if c.Kind == Numeric {
				nc.Floats = append(nc.Floats, c.Floats[i])
			} else {
				nc.Strings = append(nc.Strings, c.Strings[i])
			}
		}
		out.Columns = append(out.Columns, nc)
	}
	return out, nil
}

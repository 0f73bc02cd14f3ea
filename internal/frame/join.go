package frame

import (
	"fmt"
	"math"
)

// Join merges two indexed frames on their index values. how is either
// "inner" (intersection, left order) or "outer" (union, left order then
// right-only rows in right order). Cells absent from one side become NaN
// for numeric columns and "" for string columns. Columns present in both
// frames are suffixed "_x" (left) and "_y" (right).
func Join(left, right *Frame, how string) (*Frame, error) {
	if how != "inner" && how != "outer" {
		return nil, fmt.Errorf("unsupported join %q: must be 'inner' or 'outer'", how)
	}
	if !left.HasIndex || !right.HasIndex {
		return nil, fmt.Errorf("both frames must be indexed to join")
	}

	overlap := make(map[string]bool)
	for _, c := range right.Columns {
		if left.HasColumn(c.Name) {
			overlap[c.Name] = true
		}
	}

	leftRows := indexRows(left)
	rightRows := indexRows(right)

	var index []float64
	for _, v := range left.Index {
		if _, ok := rightRows[v]; ok || how == "outer" {
			index = append(index, v)
		}
	}
	if how == "outer" {
		for _, v := range right.Index {
			if _, ok := leftRows[v]; !ok {
				index = append(index, v)
			}
		}
	}

	out := &Frame{IndexName: left.IndexName, Index: index, HasIndex: true}
	appendSide := func(src *Frame, rows map[float64]int, suffix string) {
		for _, c := range src.Columns {
			name := c.Name
			if overlap[name] {
				name += suffix
			}
			nc := &Column{Name: name, Kind: c.Kind}
			for _, v := range index {
				i, ok := rows[v]
				switch {
				case c.Kind == Numeric && ok:
					nc.Floats = append(nc.Floats, c.Floats[i])
				case c.Kind == Numeric:
					nc.Floats = append(nc.Floats, math.NaN())
				case ok:
					nc.Strings = append(nc.Strings, c.Strings[i])
				default:
					nc.Strings = append(nc.Strings, "")
				}
			}
			out.Columns = append(out.Columns, nc)
		}
	}
	appendSide(left, leftRows, "_x")
	appendSide(right, rightRows, "_y")
	return out, nil
}

func indexRows(f *Frame) map[float64]int {
	rows := make(map[float64]int, len(f.Index))
	for i, v := range f.Index {
		rows[v] = i
	}
	return rows
}

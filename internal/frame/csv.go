package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ReadCSV parses CSV data into a frame. The first record is the header.
// A column is numeric when every non-blank cell parses as a float; blank
// cells in numeric columns become NaN.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := records[0]
	rows := records[1:]

	f := New()
	for j, name := range header {
		numeric := true
		for _, row := range rows {
			cell := row[j]
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}

		var col *Column
		if numeric {
			vals := make([]float64, len(rows))
			for i, row := range rows {
				if row[j] == "" {
					vals[i] = math.NaN()
					continue
				}
				vals[i], _ = strconv.ParseFloat(row[j], 64)
			}
			col = &Column{Name: name, Kind: Numeric, Floats: vals}
		} else {
			vals := make([]string, len(rows))
			for i, row := range rows {
				vals[i] = row[j]
			}
			col = &Column{Name: name, Kind: String, Strings: vals}
		}
		if err := f.addColumn(col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteCSV serializes the frame as CSV. The index, if present, is written as
// the leading column. NaN cells are written as empty strings.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(f.Columns)+1)
	if f.HasIndex {
		header = append(header, f.IndexName)
	}
	header = append(header, f.ColumnNames()...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := 0; i < f.NumRows(); i++ {
		row := make([]string, 0, len(header))
		if f.HasIndex {
			row = append(row, formatFloat(f.Index[i]))
		}
		for _, c := range f.Columns {
			if c.Kind == Numeric {
				row = append(row, formatFloat(c.Floats[i]))
			} else {
				row = append(row, c.Strings[i])
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package cleaning

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/omicsworks/gutmetrics/internal/frame"
)

// DefaultIndexColumn is the sample identifier column shared by all omics
// tables in a study export.
const DefaultIndexColumn = "public_client_id"

// DefaultMinReads is the minimum sequencing depth accepted for a
// microbiome sample.
const DefaultMinReads = 30000

// Tolerances for checking that OTU abundances sum to one, matching
// numpy.allclose defaults.
const (
	sumAbsTol = 1e-8
	sumRelTol = 1e-5
)

// StandardizeIndex returns a copy of f indexed by indexCol, with the index
// cast to float64. An empty indexCol selects DefaultIndexColumn.
func StandardizeIndex(f *frame.Frame, indexCol string) (*frame.Frame, error) {
	if indexCol == "" {
		indexCol = DefaultIndexColumn
	}
	if f.Empty() {
		return nil, fmt.Errorf("Cannot standardize index of empty DataFrame")
	}

	out := f.Copy()
	if col, ok := out.Column(indexCol); ok {
		if hasDuplicates(col) {
			return nil, fmt.Errorf("Duplicate client IDs found")
		}
		if err := out.SetIndex(indexCol); err != nil {
			return nil, err
		}
		return out, nil
	}

	if out.HasIndex && out.IndexName == indexCol {
		if hasDuplicateFloats(out.Index) {
			return nil, fmt.Errorf("Duplicate client IDs found")
		}
		return out, nil
	}

	return nil, fmt.Errorf("column %q not found", indexCol)
}

// RemoveOutliers drops rows whose value in column falls outside
// [Q1 - nStd*IQR, Q3 + nStd*IQR]. NaN rows are dropped as well, since they
// satisfy neither bound.
func RemoveOutliers(f *frame.Frame, column string, nStd float64) (*frame.Frame, error) {
	col, ok := f.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	if col.Kind != frame.Numeric {
		return nil, fmt.Errorf("column %q is not numeric", column)
	}

	q1 := quantile(col.Floats, 0.25)
	q3 := quantile(col.Floats, 0.75)
	iqr := q3 - q1
	lower := q1 - nStd*iqr
	upper := q3 + nStd*iqr

	keep := make([]bool, len(col.Floats))
	for i, v := range col.Floats {
		keep[i] = v >= lower && v <= upper
	}
	return f.FilterRows(keep)
}

// ValidateMetabolomics checks that all required columns are present and that
// every metabolite column is numeric. A nil requiredCols selects the default
// diversity columns shannon, PD_whole_tree and chao1.
func ValidateMetabolomics(f *frame.Frame, requiredCols []string) error {
	if f.Empty() {
		return fmt.Errorf("Cannot validate empty DataFrame")
	}
	if requiredCols == nil {
		requiredCols = []string{"shannon", "PD_whole_tree", "chao1"}
	}

	required := make(map[string]struct{}, len(requiredCols))
	var missing []string
	for _, name := range requiredCols {
		required[name] = struct{}{}
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	var nonNumeric []string
	for _, col := range f.Columns {
		if _, ok := required[col.Name]; ok {
			continue
		}
		if col.Kind != frame.Numeric {
			nonNumeric = append(nonNumeric, col.Name)
		}
	}
	if len(nonNumeric) > 0 {
		return fmt.Errorf("Non-numeric data found in columns: %s", strings.Join(nonNumeric, ", "))
	}
	return nil
}

// ValidateMicrobiome checks that OTU columns exist, that every sample meets
// the read-depth floor, and that per-sample abundances sum to one. A
// minReads of 0 selects DefaultMinReads.
func ValidateMicrobiome(f *frame.Frame, minReads int) error {
	if f.Empty() {
		return fmt.Errorf("Cannot validate empty DataFrame")
	}
	if minReads == 0 {
		minReads = DefaultMinReads
	}

	var otuCols []*frame.Column
	for _, col := range f.Columns {
		if strings.Contains(strings.ToLower(col.Name), "bacteria") {
			otuCols = append(otuCols, col)
		}
	}
	if len(otuCols) == 0 {
		return fmt.Errorf("No bacterial OTU columns found")
	}

	if reads, ok := f.Column("total_reads"); ok && reads.Kind == frame.Numeric {
		var low []string
		for i, v := range reads.Floats {
			if v < float64(minReads) {
				low = append(low, rowLabel(f, i))
			}
		}
		if len(low) > 0 {
			return fmt.Errorf("Samples [%s] have fewer than %d reads", strings.Join(low, ", "), minReads)
		}
	}

	for i := 0; i < f.NumRows(); i++ {
		sum := 0.0
		for _, col := range otuCols {
			if col.Kind != frame.Numeric {
				return fmt.Errorf("OTU column %q is not numeric", col.Name)
			}
			if v := col.Floats[i]; !math.IsNaN(v) {
				sum += v
			}
		}
		if !scalar.EqualWithinAbsOrRel(sum, 1.0, sumAbsTol, sumRelTol) {
			return fmt.Errorf("OTU abundances are not normalized to sum to 1")
		}
	}
	return nil
}

// CleanMetadata verifies that the study's required metadata columns are
// present and returns a copy of the frame.
func CleanMetadata(f *frame.Frame) (*frame.Frame, error) {
	requiredCols := []string{"bacteria_1", "bacteria_2", "total_reads"}
	for _, name := range requiredCols {
		if !f.HasColumn(name) {
			return nil, fmt.Errorf("Missing required columns")
		}
	}
	return f.Copy(), nil
}

// quantile computes the p-th quantile with linear interpolation between the
// two nearest order statistics, ignoring NaN values.
func quantile(vals []float64, p float64) float64 {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)

	pos := p * float64(len(clean)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return clean[lo]
	}
	frac := pos - float64(lo)
	return clean[lo]*(1-frac) + clean[hi]*frac
}

func hasDuplicates(col *frame.Column) bool {
	if col.Kind == frame.Numeric {
		return hasDuplicateFloats(col.Floats)
	}
	seen := make(map[string]struct{}, len(col.Strings))
	for _, v := range col.Strings {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

func hasDuplicateFloats(vals []float64) bool {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

// rowLabel identifies a row in error messages, preferring the sample index.
func rowLabel(f *frame.Frame, i int) string {
	if f.HasIndex {
		return formatIndexValue(f.Index[i])
	}
	return fmt.Sprintf("%d", i)
}

func formatIndexValue(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

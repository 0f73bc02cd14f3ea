package scaling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/omicsworks/gutmetrics/internal/frame"
)

// Default metadata columns excluded from scaling, per omics type.
var (
	MetabolomicsMetadata = []string{"shannon", "PD_whole_tree", "chao1", "BMI", "Age", "sex"}
	ProteomicsMetadata   = []string{"shannon", "sex", "age"}
	ClinicalMetadata     = []string{"shannon"}
)

// ScaleFrame returns a copy of f with every column not listed in excludeCols
// standardized to zero mean and unit variance. Variance uses the population
// estimator. Zero-variance columns are centered only. NaN cells are ignored
// when fitting and pass through unchanged.
func ScaleFrame(f *frame.Frame, excludeCols []string) (*frame.Frame, error) {
	excluded := make(map[string]struct{}, len(excludeCols))
	for _, name := range excludeCols {
		excluded[name] = struct{}{}
	}

	out := f.Copy()
	for _, col := range out.Columns {
		if _, ok := excluded[col.Name]; ok {
			continue
		}
		if col.Kind != frame.Numeric {
			return nil, fmt.Errorf("cannot scale non-numeric column %q", col.Name)
		}
		zscore(col.Floats)
	}
	return out, nil
}

// ScaleMetabolomics scales metabolite columns. A nil excludeCols selects
// MetabolomicsMetadata.
func ScaleMetabolomics(f *frame.Frame, excludeCols []string) (*frame.Frame, error) {
	if excludeCols == nil {
		excludeCols = MetabolomicsMetadata
	}
	return ScaleFrame(f, excludeCols)
}

// ScaleProteomics scales protein columns. A nil metadataCols selects
// ProteomicsMetadata.
func ScaleProteomics(f *frame.Frame, metadataCols []string) (*frame.Frame, error) {
	if metadataCols == nil {
		metadataCols = ProteomicsMetadata
	}
	return ScaleFrame(f, metadataCols)
}

// ScaleClinicalLabs scales clinical laboratory columns. A nil metadataCols
// selects ClinicalMetadata.
func ScaleClinicalLabs(f *frame.Frame, metadataCols []string) (*frame.Frame, error) {
	if metadataCols == nil {
		metadataCols = ClinicalMetadata
	}
	return ScaleFrame(f, metadataCols)
}

// ScaleAndCombine scales each provided omics table with its default metadata
// exclusions and joins them on the sample index. proteomics and clinical may
// be nil. join is "inner" or "outer".
func ScaleAndCombine(metabolomics, proteomics, clinical *frame.Frame, join string) (*frame.Frame, error) {
	merged, err := ScaleMetabolomics(metabolomics, nil)
	if err != nil {
		return nil, err
	}

	if proteomics != nil {
		scaled, err := ScaleProteomics(proteomics, nil)
		if err != nil {
			return nil, err
		}
		merged, err = frame.Join(merged, scaled, join)
		if err != nil {
			return nil, err
		}
	}

	if clinical != nil {
		scaled, err := ScaleClinicalLabs(clinical, nil)
		if err != nil {
			return nil, err
		}
		merged, err = frame.Join(merged, scaled, join)
		if err != nil {
			return nil, err
		}
	}

	return merged, nil
}

// ScaledFeatureNames returns the columns of f that scaling would transform.
// A nil excludeCols selects MetabolomicsMetadata.
func ScaledFeatureNames(f *frame.Frame, excludeCols []string) []string {
	if excludeCols == nil {
		excludeCols = MetabolomicsMetadata
	}
	excluded := make(map[string]struct{}, len(excludeCols))
	for _, name := range excludeCols {
		excluded[name] = struct{}{}
	}

	names := make([]string, 0, f.NumCols())
	for _, col := range f.Columns {
		if _, ok := excluded[col.Name]; !ok {
			names = append(names, col.Name)
		}
	}
	return names
}

// zscore standardizes vals in place using the population standard deviation.
func zscore(vals []float64) {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return
	}

	mean := stat.Mean(clean, nil)
	std := stat.PopStdDev(clean, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	for i, v := range vals {
		if !math.IsNaN(v) {
			vals[i] = (v - mean) / std
		}
	}
}

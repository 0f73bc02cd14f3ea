package cleaning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsworks/gutmetrics/internal/cleaning"
	"github.com/omicsworks/gutmetrics/internal/frame"
)

const (
	minReads     = 30000
	stdThreshold = 3.0
)

func sampleData(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddNumeric("public_client_id", []float64{1, 2, 3}))
	require.NoError(t, f.AddNumeric("value", []float64{10, 20, 30}))
	return f
}

func TestStandardizeIndex(t *testing.T) {
	result, err := cleaning.StandardizeIndex(sampleData(t), "")
	require.NoError(t, err)

	assert.Equal(t, "public_client_id", result.IndexName)
	assert.Equal(t, []float64{1, 2, 3}, result.Index)
	assert.Equal(t, 1, result.NumCols())
}

func TestStandardizeIndexEmpty(t *testing.T) {
	_, err := cleaning.StandardizeIndex(frame.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot standardize index of empty DataFrame")
}

func TestStandardizeIndexDuplicateIDs(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("public_client_id", []float64{1, 1, 2}))
	require.NoError(t, f.AddNumeric("value", []float64{10, 20, 30}))

	_, err := cleaning.StandardizeIndex(f, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate client IDs found")
}

func TestStandardizeIndexDoesNotMutateInput(t *testing.T) {
	f := sampleData(t)
	_, err := cleaning.StandardizeIndex(f, "")
	require.NoError(t, err)

	assert.False(t, f.HasIndex)
	assert.Equal(t, 2, f.NumCols())
}

func TestRemoveOutliers(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("value", []float64{1.0, 2.0, 100.0, 3.0, 2.5}))

	result, err := cleaning.RemoveOutliers(f, "value", stdThreshold)
	require.NoError(t, err)

	assert.Equal(t, 4, result.NumRows())
	value, _ := result.Column("value")
	for _, v := range value.Floats {
		assert.LessOrEqual(t, v, 3.0)
	}
}

func TestRemoveOutliersAllSame(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("value", []float64{1.0, 1.0, 1.0}))

	result, err := cleaning.RemoveOutliers(f, "value", stdThreshold)
	require.NoError(t, err)

	assert.Equal(t, 3, result.NumRows())
	value, _ := result.Column("value")
	assert.Equal(t, []float64{1, 1, 1}, value.Floats)
}

func TestRemoveOutliersUnknownColumn(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("value", []float64{1.0}))

	_, err := cleaning.RemoveOutliers(f, "missing", stdThreshold)
	assert.Error(t, err)
}

func TestValidateMetabolomicsEmpty(t *testing.T) {
	err := cleaning.ValidateMetabolomics(frame.New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot validate empty DataFrame")
}

func TestValidateMetabolomics(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("shannon", []float64{1.0, 2.0}))
	require.NoError(t, f.AddNumeric("PD_whole_tree", []float64{0.5, 0.6}))
	require.NoError(t, f.AddNumeric("chao1", []float64{100, 120}))
	require.NoError(t, f.AddNumeric("metabolite1", []float64{0.1, 0.2}))

	assert.NoError(t, cleaning.ValidateMetabolomics(f, nil))
}

func TestValidateMetabolomicsMissingColumns(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("invalid_column", []float64{1.0, 2.0}))
	require.NoError(t, f.AddNumeric("another_invalid", []float64{0.5, 0.6}))

	err := cleaning.ValidateMetabolomics(f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required columns: shannon, PD_whole_tree, chao1")
}

func TestValidateMetabolomicsNonNumeric(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("shannon", []float64{1.0, 2.0}))
	require.NoError(t, f.AddNumeric("PD_whole_tree", []float64{0.5, 0.6}))
	require.NoError(t, f.AddNumeric("chao1", []float64{100, 120}))
	require.NoError(t, f.AddString("metabolite1", []string{"a", "b"}))

	err := cleaning.ValidateMetabolomics(f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Non-numeric data found in columns: metabolite1")
}

func microbiomeData(t *testing.T, reads []float64) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddNumeric("bacteria_1", []float64{0.5, 0.6}))
	require.NoError(t, f.AddNumeric("bacteria_2", []float64{0.5, 0.4}))
	require.NoError(t, f.AddNumeric("total_reads", reads))
	return f
}

func TestValidateMicrobiome(t *testing.T) {
	f := microbiomeData(t, []float64{minReads, minReads + 1000})

	cleaned, err := cleaning.CleanMetadata(f)
	require.NoError(t, err)
	assert.True(t, cleaned.HasColumn("bacteria_1"))
	assert.True(t, cleaned.HasColumn("bacteria_2"))

	assert.NoError(t, cleaning.ValidateMicrobiome(cleaned, 0))
}

func TestValidateMicrobiomeLowReads(t *testing.T) {
	f := microbiomeData(t, []float64{minReads - 1000, minReads - 500})

	err := cleaning.ValidateMicrobiome(f, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Samples [0, 1] have fewer than 30000 reads")
}

func TestValidateMicrobiomeNoOTUColumns(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("total_reads", []float64{minReads}))

	err := cleaning.ValidateMicrobiome(f, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No bacterial OTU columns found")
}

func TestValidateMicrobiomeUnnormalized(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("bacteria_1", []float64{0.5, 0.6}))
	require.NoError(t, f.AddNumeric("bacteria_2", []float64{0.2, 0.4}))

	err := cleaning.ValidateMicrobiome(f, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTU abundances are not normalized to sum to 1")
}

func TestCleanMetadataMissingColumns(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("some_column", []float64{1, 2, 3}))

	_, err := cleaning.CleanMetadata(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required columns")
}

package frame_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsworks/gutmetrics/internal/frame"
)

func TestSetIndex(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddString("public_client_id", []string{"1", "2", "3"}))
	require.NoError(t, f.AddNumeric("value", []float64{10, 20, 30}))

	require.NoError(t, f.SetIndex("public_client_id"))

	assert.True(t, f.HasIndex)
	assert.Equal(t, "public_client_id", f.IndexName)
	assert.Equal(t, []float64{1, 2, 3}, f.Index)
	assert.Equal(t, 1, f.NumCols())
	assert.False(t, f.HasColumn("public_client_id"))
}

func TestSetIndexUnparsable(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddString("id", []string{"a", "b"}))

	err := f.SetIndex("id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cast index value")
}

func TestAddColumnLengthMismatch(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("a", []float64{1, 2}))
	assert.Error(t, f.AddNumeric("b", []float64{1}))
	assert.Error(t, f.AddNumeric("a", []float64{3, 4}))
}

func TestCopyIsDeep(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("id", []float64{1, 2}))
	require.NoError(t, f.SetIndex("id"))
	require.NoError(t, f.AddNumeric("value", []float64{10, 20}))

	c := f.Copy()
	col, _ := c.Column("value")
	col.Floats[0] = 99
	c.Index[0] = 99

	orig, _ := f.Column("value")
	assert.Equal(t, 10.0, orig.Floats[0])
	assert.Equal(t, 1.0, f.Index[0])
}

func TestFilterRows(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("id", []float64{1, 2, 3}))
	require.NoError(t, f.SetIndex("id"))
	require.NoError(t, f.AddNumeric("value", []float64{10, 20, 30}))
	require.NoError(t, f.AddString("label", []string{"a", "b", "c"}))

	out, err := f.FilterRows([]bool{true, false, true})
	require.NoError(t, err)

	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, []float64{1, 3}, out.Index)
	value, _ := out.Column("value")
	assert.Equal(t, []float64{10, 30}, value.Floats)
	label, _ := out.Column("label")
	assert.Equal(t, []string{"a", "c"}, label.Strings)
}

func TestReadCSV(t *testing.T) {
	input := "id,value,label\n1,10.5,x\n2,,y\n3,30,z\n"
	f, err := frame.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, []string{"id", "value", "label"}, f.ColumnNames())

	value, ok := f.Column("value")
	require.True(t, ok)
	assert.Equal(t, frame.Numeric, value.Kind)
	assert.Equal(t, 10.5, value.Floats[0])
	assert.True(t, math.IsNaN(value.Floats[1]))

	label, ok := f.Column("label")
	require.True(t, ok)
	assert.Equal(t, frame.String, label.Kind)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddNumeric("id", []float64{1, 2}))
	require.NoError(t, f.SetIndex("id"))
	require.NoError(t, f.AddNumeric("value", []float64{10.5, math.NaN()}))

	var sb strings.Builder
	require.NoError(t, frame.WriteCSV(&sb, f))

	got, err := frame.ReadCSV(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.NoError(t, got.SetIndex("id"))

	assert.Equal(t, f.Index, got.Index)
	value, _ := got.Column("value")
	assert.Equal(t, 10.5, value.Floats[0])
	assert.True(t, math.IsNaN(value.Floats[1]))
}

func TestJoinInner(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddNumeric("id", []float64{1, 2, 3}))
	require.NoError(t, left.SetIndex("id"))
	require.NoError(t, left.AddNumeric("a", []float64{10, 20, 30}))

	right := frame.New()
	require.NoError(t, right.AddNumeric("id", []float64{2, 3, 4}))
	require.NoError(t, right.SetIndex("id"))
	require.NoError(t, right.AddNumeric("b", []float64{200, 300, 400}))

	out, err := frame.Join(left, right, "inner")
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3}, out.Index)
	a, _ := out.Column("a")
	assert.Equal(t, []float64{20, 30}, a.Floats)
	b, _ := out.Column("b")
	assert.Equal(t, []float64{200, 300}, b.Floats)
}

func TestJoinOuterFillsMissing(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddNumeric("id", []float64{1, 2}))
	require.NoError(t, left.SetIndex("id"))
	require.NoError(t, left.AddNumeric("a", []float64{10, 20}))

	right := frame.New()
	require.NoError(t, right.AddNumeric("id", []float64{2, 3}))
	require.NoError(t, right.SetIndex("id"))
	require.NoError(t, right.AddString("s", []string{"x", "y"}))

	out, err := frame.Join(left, right, "outer")
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, out.Index)
	a, _ := out.Column("a")
	assert.True(t, math.IsNaN(a.Floats[2]))
	s, _ := out.Column("s")
	assert.Equal(t, []string{"", "x", "y"}, s.Strings)
}

func TestJoinSuffixesOverlappingColumns(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddNumeric("id", []float64{1}))
	require.NoError(t, left.SetIndex("id"))
	require.NoError(t, left.AddNumeric("shannon", []float64{0.5}))

	right := frame.New()
	require.NoError(t, right.AddNumeric("id", []float64{1}))
	require.NoError(t, right.SetIndex("id"))
	require.NoError(t, right.AddNumeric("shannon", []float64{0.6}))

	out, err := frame.Join(left, right, "inner")
	require.NoError(t, err)

	assert.True(t, out.HasColumn("shannon_x"))
	assert.True(t, out.HasColumn("shannon_y"))
	assert.False(t, out.HasColumn("shannon"))
}

func TestJoinRejectsUnknownHow(t *testing.T) {
	left := frame.New()
	require.NoError(t, left.AddNumeric("id", []float64{1}))
	require.NoError(t, left.SetIndex("id"))

	_, err := frame.Join(left, left.Copy(), "left")
	assert.Error(t, err)
}

// Package frame provides a small column-oriented table used to carry omics
// measurements between pipeline stages. Columns are either numeric (float64,
// with NaN for missing cells) or string. A frame may carry a numeric index
// identifying each sample row.
package frame

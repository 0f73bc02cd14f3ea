// Package scaling z-score standardizes omics feature columns while
// preserving metadata, and combines scaled tables across omics types.
package scaling

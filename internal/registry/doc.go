// Package registry holds the mapping between manifest-declared runner and
// asset types and their compiled Go handlers, and validates that the two
// sides agree before execution starts.
package registry

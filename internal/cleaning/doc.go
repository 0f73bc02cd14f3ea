// Package cleaning validates and sanitizes metabolomics and microbiome
// sample tables before scaling.
package cleaning

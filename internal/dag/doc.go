// Package dag builds and validates the dependency graph for a pipeline run.
// Nodes are created from the config model's stages and resources, linked by
// explicit depends_on entries and implicit HCL expression references, and
// checked for cycles before execution.
package dag

package dag

import (
	"sync"
	"sync/atomic"

	"github.com/omicsworks/gutmetrics/internal/config"
)

// NodeType distinguishes runnable stages from stateful resources.
type NodeType int

const (
	// StageNode is a single invocation of a runner.
	StageNode NodeType = iota
	// ResourceNode is a stateful asset with create/destroy lifecycle.
	ResourceNode
)

// State is the lifecycle state of a node during execution.
type State int32

const (
	Pending State = iota
	Running
	Done
	Failed
	Skipped
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
type Graph struct {
	Nodes map[string]*Node
}

// Node represents a single vertex in the dependency graph.
type Node struct {
	ID   string
	Name string
	Type NodeType

	StageConfig    *config.Stage
	ResourceConfig *config.Resource

	// Deps holds the nodes this node depends on (predecessors).
	Deps map[string]*Node
	// Dependents holds the nodes that depend on this node (successors).
	Dependents map[string]*Node

	// Output is the node's result: a cty.Value for stages, the live object
	// for resources. Written by the executor while the node is Running.
	Output any
	// Error records why the node failed or was skipped.
	Error error

	mu    sync.Mutex
	state State

	// pendingDeps counts unfinished dependencies; a node becomes ready when
	// it reaches zero. pendingDescendants counts unfinished dependent stages
	// of a resource, driving efficient destruction.
	pendingDeps        atomic.Int32
	pendingDescendants atomic.Int32
}

// SetState transitions the node to a new lifecycle state.
func (n *Node) SetState(s State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = s
}

// GetState returns the node's current lifecycle state.
func (n *Node) GetState() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// TrySkip atomically transitions a Pending node to Skipped, recording the
// cause. It reports whether this call performed the transition, so callers
// can account for each skipped node exactly once.
func (n *Node) TrySkip(cause error) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != Pending {
		return false
	}
	n.state = Skipped
	n.Error = cause
	return true
}

// SetInitialCounters seeds the pending counters from the linked graph.
func (n *Node) SetInitialCounters() {
	n.pendingDeps.Store(int32(len(n.Deps)))
	n.pendingDescendants.Store(int32(len(n.Dependents)))
}

// DecrementDepCount marks one dependency as finished and returns the number
// still outstanding.
func (n *Node) DecrementDepCount() int32 {
	return n.pendingDeps.Add(-1)
}

// DecrementDescendantCount marks one dependent stage as finished and returns
// the number still outstanding.
func (n *Node) DecrementDescendantCount() int32 {
	return n.pendingDescendants.Add(-1)
}

// Address returns the user-facing address of the node, e.g. "exec.format".
func (n *Node) Address() string {
	if n.Type == StageNode {
		return n.StageConfig.RunnerType + "." + n.Name
	}
	return n.ResourceConfig.AssetType + "." + n.Name
}

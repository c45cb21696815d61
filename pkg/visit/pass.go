package visit

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Inspector is a read-only pass. Preorder returns false to skip the
// children of n and its Postorder. Revisit is called instead of Preorder when a shared node
// is met again in the same traversal; LoopRevisit when n is met again while
// it is still being visited.
type Inspector interface {
	Preorder(v *Visitor, n ir.Node) bool
	Postorder(v *Visitor, n ir.Node)
	Revisit(v *Visitor, n ir.Node)
	LoopRevisit(v *Visitor, n ir.Node)
}

// Modifier is a copy-on-write pass. Preorder and Postorder receive a clone
// of the visited node that they may mutate freely; Preorder returns false
// to skip the children and Postorder. Revisit receives the original node and the result
// cached for it.
type Modifier interface {
	Preorder(v *Visitor, n ir.Node) bool
	Postorder(v *Visitor, n ir.Node)
	Revisit(v *Visitor, orig, result ir.Node)
	LoopRevisit(v *Visitor, n ir.Node)
}

// Transform is the general rewriting pass. Preorder and Postorder receive a
// clone of the visited node and return its replacement: the clone itself,
// any other node, an [ir.List] to splice into a sequence, or nil to delete.
// A Preorder that returns anything other than its argument prunes the
// visit of the original children and Postorder.
type Transform interface {
	Preorder(v *Visitor, n ir.Node) ir.Node
	Postorder(v *Visitor, n ir.Node) ir.Node
	Revisit(v *Visitor, orig, result ir.Node)
	LoopRevisit(v *Visitor, n ir.Node)
}

// InspectorBase provides default Inspector methods. Embed it and override
// what the pass needs.
type InspectorBase struct{}

func (InspectorBase) Preorder(*Visitor, ir.Node) bool   { return true }
func (InspectorBase) Postorder(*Visitor, ir.Node)       {}
func (InspectorBase) Revisit(*Visitor, ir.Node)         {}
func (InspectorBase) LoopRevisit(v *Visitor, n ir.Node) { loopFault(v, n) }

// ModifierBase provides default Modifier methods.
type ModifierBase struct{}

func (ModifierBase) Preorder(*Visitor, ir.Node) bool    { return true }
func (ModifierBase) Postorder(*Visitor, ir.Node)        {}
func (ModifierBase) Revisit(*Visitor, ir.Node, ir.Node) {}
func (ModifierBase) LoopRevisit(v *Visitor, n ir.Node)  { loopFault(v, n) }

// TransformBase provides default Transform methods.
type TransformBase struct{}

func (TransformBase) Preorder(_ *Visitor, n ir.Node) ir.Node  { return n }
func (TransformBase) Postorder(_ *Visitor, n ir.Node) ir.Node { return n }
func (TransformBase) Revisit(*Visitor, ir.Node, ir.Node)      {}
func (TransformBase) LoopRevisit(v *Visitor, n ir.Node)       { loopFault(v, n) }

func loopFault(v *Visitor, n ir.Node) {
	errors.Bug(errors.ErrCodeLoop, "%s: IR loop detected at %s", v.Name(), ir.Dbp(n))
}

// Flow is implemented by passes that carry analysis state along control
// flow. The pass value itself is the state.
type Flow interface {
	// FlowClone returns an independent copy of the state.
	FlowClone() Flow
	// FlowMerge folds other into the receiver (the meet operator).
	FlowMerge(other Flow)
	// FlowCopy overwrites the receiver's state with other's.
	FlowCopy(other Flow)
}

// JoinFilter lets a control-flow pass exclude nodes from join handling.
// FilterJoinPoint returns true for nodes with several predecessors that
// must not be treated as join points.
type JoinFilter interface {
	FilterJoinPoint(n ir.Node) bool
}

// Starter is implemented by passes that need setup before a traversal.
type Starter interface {
	Start(v *Visitor, root ir.Node)
}

// Finisher is implemented by passes that need a hook after a traversal.
// root is the traversal result.
type Finisher interface {
	Finish(v *Visitor, root ir.Node)
}

package visit

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Frame is one level of the traversal context. A frame is valid only while
// its node is being visited; do not retain it past the callback.
type Frame struct {
	Node     ir.Node // working node: a clone for Modifier and Transform
	Original ir.Node // node as found in the input tree
	Parent   *Frame
	Index    int    // slot index in the parent
	Name     string // field name in the parent
	Depth    int

	inPre   bool
	pruned  bool
	visited int
}

// ChildrenVisited returns how many children of the frame's node have been
// visited so far.
func (f *Frame) ChildrenVisited() int { return f.visited }

func (v *Visitor) frame() *Frame {
	errors.Check(v.top != nil, errors.ErrCodeNoContext, "%s: context query outside a traversal", v.Name())
	return v.top
}

// Frame returns the innermost frame.
func (v *Visitor) Frame() *Frame { return v.frame() }

// Current returns the node being visited.
func (v *Visitor) Current() ir.Node { return v.frame().Node }

// Original returns the node being visited as it appeared before this pass
// cloned or replaced it.
func (v *Visitor) Original() ir.Node { return v.frame().Original }

// Parent returns the frame of the parent node, or nil at the root.
func (v *Visitor) Parent() *Frame { return v.frame().Parent }

// Depth returns the nesting depth of the current node; the root is 1.
func (v *Visitor) Depth() int { return v.frame().Depth }

// ChildIndex returns the slot index of the current node in its parent.
func (v *Visitor) ChildIndex() int { return v.frame().Index }

// ChildName returns the field name of the current node in its parent.
func (v *Visitor) ChildName() string { return v.frame().Name }

// FindAncestor returns the frame of the nearest strict ancestor of kind k,
// or nil.
func (v *Visitor) FindAncestor(k ir.Kind) *Frame {
	for f := v.frame().Parent; f != nil; f = f.Parent {
		if f.Node != nil && f.Node.Kind() == k {
			return f
		}
	}
	return nil
}

// InContext reports whether n is the current node or one of its
// ancestors, comparing both working and original nodes.
func (v *Visitor) InContext(n ir.Node) bool {
	for f := v.frame(); f != nil; f = f.Parent {
		if f.Node == n || f.Original == n {
			return true
		}
	}
	return false
}

// Find returns the nearest strict ancestor whose working node is a T.
func Find[T ir.Node](v *Visitor) (T, bool) {
	for f := v.frame().Parent; f != nil; f = f.Parent {
		if t, ok := f.Node.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindOriginal is like Find but returns the ancestor's original node.
func FindOriginal[T ir.Node](v *Visitor) (T, bool) {
	for f := v.frame().Parent; f != nil; f = f.Parent {
		if t, ok := f.Original.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

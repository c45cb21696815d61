package visit

import "github.com/matzehuels/irwalk/pkg/ir"

type forAll[T ir.Node] struct {
	InspectorBase
	fn func(T)
}

func (p *forAll[T]) Postorder(_ *Visitor, n ir.Node) {
	if t, ok := n.(T); ok {
		p.fn(t)
	}
}

// ForAll calls fn for every node of type T under root, children first.
func ForAll[T ir.Node](root ir.Node, fn func(T), opts ...Option) {
	NewInspector(&forAll[T]{fn: fn}, append([]Option{WithName("ForAll")}, opts...)...).Apply(root)
}

type modifyAll[T ir.Node] struct {
	ModifierBase
	fn func(T)
}

func (p *modifyAll[T]) Postorder(_ *Visitor, n ir.Node) {
	if t, ok := n.(T); ok {
		p.fn(t)
	}
}

// ModifyAll calls fn on a clone of every node of type T under root and
// returns the new root. Nodes fn leaves unchanged are kept.
func ModifyAll[T ir.Node](root ir.Node, fn func(T), opts ...Option) ir.Node {
	return NewModifier(&modifyAll[T]{fn: fn}, append([]Option{WithName("ModifyAll")}, opts...)...).Apply(root)
}

type transformAll[T ir.Node] struct {
	TransformBase
	fn func(T) ir.Node
}

func (p *transformAll[T]) Postorder(_ *Visitor, n ir.Node) ir.Node {
	if t, ok := n.(T); ok {
		return p.fn(t)
	}
	return n
}

// TransformAll replaces every node of type T under root by fn's result and
// returns the new root.
func TransformAll[T ir.Node](root ir.Node, fn func(T) ir.Node, opts ...Option) ir.Node {
	return NewTransform(&transformAll[T]{fn: fn}, append([]Option{WithName("TransformAll")}, opts...)...).Apply(root)
}

// InspectorFuncs is an Inspector dispatching on node kind through O(1)
// tables. Kinds without an entry are descended into.
type InspectorFuncs struct {
	InspectorBase
	Pre  ir.KindTable[func(*Visitor, ir.Node) bool]
	Post ir.KindTable[func(*Visitor, ir.Node)]
}

func (p *InspectorFuncs) Preorder(v *Visitor, n ir.Node) bool {
	if fn, ok := p.Pre.Lookup(n.Kind()); ok {
		return fn(v, n)
	}
	return true
}

func (p *InspectorFuncs) Postorder(v *Visitor, n ir.Node) {
	if fn, ok := p.Post.Lookup(n.Kind()); ok {
		fn(v, n)
	}
}

// TransformFuncs is a Transform dispatching on node kind through O(1)
// tables. Kinds without an entry are kept.
type TransformFuncs struct {
	TransformBase
	Pre  ir.KindTable[func(*Visitor, ir.Node) ir.Node]
	Post ir.KindTable[func(*Visitor, ir.Node) ir.Node]
}

func (p *TransformFuncs) Preorder(v *Visitor, n ir.Node) ir.Node {
	if fn, ok := p.Pre.Lookup(n.Kind()); ok {
		return fn(v, n)
	}
	return n
}

func (p *TransformFuncs) Postorder(v *Visitor, n ir.Node) ir.Node {
	if fn, ok := p.Post.Lookup(n.Kind()); ok {
		return fn(v, n)
	}
	return n
}

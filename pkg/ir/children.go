package ir

import (
	"reflect"

	"github.com/matzehuels/irwalk/pkg/errors"
)

// Order tags a group of children with the traversal discipline it needs.
type Order uint8

const (
	// Sequential children are visited strictly in declaration order, each
	// seeing the state left by its predecessor.
	Sequential Order = iota
	// Independent children may run as separate flow branches. Their states
	// are merged once all of them finish.
	Independent
	// Exclusive children are alternatives of a conditional: exactly one of
	// them runs at execution time. A nil alternative stands for the
	// fall-through path.
	Exclusive
)

func (o Order) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case Independent:
		return "independent"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Slot is one child position.
type Slot struct {
	Name  string // field name, shared by all elements of a sequence
	Node  Node   // may be nil for optional fields
	Index int    // position among all slots of the parent
	Seq   bool   // slot is an element of a sequence added with AddSeq
}

// Group is a run of slots closed by [Children.End].
type Group struct {
	Order Order
	Slots []Slot
}

type entry struct {
	name  string
	seq   bool
	first int
	count int
}

// Children collects a node's children in order. Node implementations call
// Add and AddSeq for every child field and End to close each traversal
// group. Slots added after the last End form a trailing sequential group.
type Children struct {
	slots   []Slot
	entries []entry
	groups  []Group
	open    int
}

// Add registers a single child field. n may be nil.
func (c *Children) Add(name string, n Node) {
	c.entries = append(c.entries, entry{name: name, first: len(c.slots), count: 1})
	c.slots = append(c.slots, Slot{Name: name, Node: n, Index: len(c.slots)})
}

// AddSeq registers a homogeneous sequence of children under one field name.
// Transforms may delete elements of a sequence or splice several nodes into
// it by returning a [List].
func (c *Children) AddSeq(name string, ns ...Node) {
	c.entries = append(c.entries, entry{name: name, seq: true, first: len(c.slots), count: len(ns)})
	for _, n := range ns {
		c.slots = append(c.slots, Slot{Name: name, Node: n, Index: len(c.slots), Seq: true})
	}
}

// End closes the slots added since the previous End as one group.
func (c *Children) End(order Order) {
	if c.open == len(c.slots) {
		return
	}
	c.groups = append(c.groups, Group{Order: order, Slots: c.slots[c.open:len(c.slots):len(c.slots)]})
	c.open = len(c.slots)
}

// Groups returns the traversal groups in declaration order.
func (c *Children) Groups() []Group {
	c.End(Sequential)
	return c.groups
}

// Slots returns every slot in declaration order.
func (c *Children) Slots() []Slot { return c.slots }

// ChildField is one child field with its current values.
type ChildField struct {
	Name  string
	Seq   bool
	Nodes []Node
}

// Fields returns the child fields in declaration order. Unlike Slots it
// includes empty sequences, so it describes the full shape SetChildren
// expects.
func (c *Children) Fields() []ChildField {
	out := make([]ChildField, len(c.entries))
	for i, e := range c.entries {
		ns := make([]Node, e.count)
		for j := range ns {
			ns[j] = c.slots[e.first+j].Node
		}
		out[i] = ChildField{Name: e.name, Seq: e.seq, Nodes: ns}
	}
	return out
}

// Len returns the number of slots.
func (c *Children) Len() int { return len(c.slots) }

// Replace pairs the slots with traversal results. results must hold one
// entry per slot; a nil result deletes the child.
func (c *Children) Replace(results []Node) *Replacements {
	errors.Check(len(results) == len(c.slots), errors.ErrCodeShape,
		"%d results for %d child slots", len(results), len(c.slots))
	return &Replacements{entries: c.entries, nodes: results}
}

// ChildrenOf enumerates the children of n.
func ChildrenOf(n Node) *Children {
	c := &Children{}
	n.Children(c)
	return c
}

// Replacements feeds child values back into a node through SetChildren.
// Values must be read in the order the node enumerated its fields.
type Replacements struct {
	entries []entry
	nodes   []Node
	next    int
}

// NewReplacements returns an empty set to be filled with Put and PutSeq.
// It is used by code that builds nodes from an external description.
func NewReplacements() *Replacements { return &Replacements{} }

// Put appends a single field value.
func (r *Replacements) Put(name string, n Node) {
	r.entries = append(r.entries, entry{name: name, first: len(r.nodes), count: 1})
	r.nodes = append(r.nodes, n)
}

// PutSeq appends a sequence field value.
func (r *Replacements) PutSeq(name string, ns ...Node) {
	r.entries = append(r.entries, entry{name: name, seq: true, first: len(r.nodes), count: len(ns)})
	r.nodes = append(r.nodes, ns...)
}

// Next returns the value of the next single field.
func (r *Replacements) Next() Node {
	e := r.take(false)
	return r.nodes[e.first]
}

// Seq returns the value of the next sequence field. Nil results are dropped
// and [List] results are spliced in place.
func (r *Replacements) Seq() []Node {
	e := r.take(true)
	out := make([]Node, 0, e.count)
	for _, n := range r.nodes[e.first : e.first+e.count] {
		out = appendFlat(out, n)
	}
	return out
}

// Done faults unless every field was read.
func (r *Replacements) Done() {
	errors.Check(r.next == len(r.entries), errors.ErrCodeShape,
		"%d of %d child fields read back", r.next, len(r.entries))
}

func (r *Replacements) take(seq bool) entry {
	errors.Check(r.next < len(r.entries), errors.ErrCodeShape, "no child field left to read")
	e := r.entries[r.next]
	errors.Check(e.seq == seq, errors.ErrCodeShape, "field %q read with the wrong shape", e.name)
	r.next++
	return e
}

func appendFlat(out []Node, n Node) []Node {
	if n == nil {
		return out
	}
	if l, ok := n.(*List); ok {
		for _, it := range l.Items {
			out = appendFlat(out, it)
		}
		return out
	}
	return append(out, n)
}

// As downcasts n to T.
func As[T Node](n Node) (T, bool) {
	t, ok := n.(T)
	return t, ok
}

// MustAs downcasts n to T. A nil n or a node of another type is an internal
// fault.
func MustAs[T Node](n Node) T {
	errors.Check(n != nil, errors.ErrCodeNilNode, "nil node where %s required", reflect.TypeFor[T]())
	t, ok := n.(T)
	errors.Check(ok, errors.ErrCodeBadCast, "%s is not a %s", Dbp(n), reflect.TypeFor[T]())
	return t
}

// Field reads the next single field as T. A nil value yields the zero T.
func Field[T Node](r *Replacements) T {
	n := r.Next()
	if n == nil {
		var zero T
		return zero
	}
	return MustAs[T](n)
}

// RequiredField reads the next single field as T and faults on nil.
func RequiredField[T Node](r *Replacements) T {
	return MustAs[T](r.Next())
}

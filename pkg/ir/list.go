package ir

// KindList is the kind of [List].
var KindList = RegisterKind("List", TraitSeq)

// List is a homogeneous sibling sequence. Returned from a Transform for a
// node that sits in a sequence field, its items are spliced into the parent
// in place of that node.
type List struct {
	Base
	Items []Node
}

// NewList allocates a List holding items.
func NewList(a *Arena, items ...Node) *List {
	return &List{Base: a.New(), Items: items}
}

func (l *List) Kind() Kind { return KindList }

func (l *List) Clone() Node {
	cp := *l
	cp.Base = l.Base.Derive()
	cp.Items = append([]Node(nil), l.Items...)
	return &cp
}

func (l *List) Children(c *Children) {
	c.AddSeq("items", l.Items...)
	c.End(Sequential)
}

func (l *List) SetChildren(r *Replacements) {
	l.Items = r.Seq()
}

func (l *List) EqualShallow(other Node) bool {
	_, ok := other.(*List)
	return ok
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.Items) }

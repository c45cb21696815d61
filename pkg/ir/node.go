package ir

import (
	"fmt"

	"github.com/matzehuels/irwalk/pkg/errors"
)

// ID is a node identity. IDs are unique within one [Arena] and increase
// monotonically in allocation order.
type ID int64

// SourceInfo is optional source-location metadata carried by a node.
// The zero value means "no location".
type SourceInfo struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the location was set.
func (s SourceInfo) IsValid() bool { return s.Line > 0 }

// String formats the location as file:line:col, omitting unknown parts.
func (s SourceInfo) String() string {
	switch {
	case !s.IsValid():
		return ""
	case s.Column > 0:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	default:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
}

// Node is the interface every IR element implements.
//
// Concrete node types embed [Base], which supplies identity and source
// information, and implement the remaining methods:
//
//   - Kind returns the registered type tag.
//   - Clone returns a shallow copy with a fresh identity (see [Base.Derive]).
//   - Children enumerates child slots in order, grouped (see [Children]).
//   - SetChildren writes traversal results back into the child slots, in
//     the same order Children enumerated them (see [Replacements]).
//   - EqualShallow compares the immediate non-child fields with another
//     node of the same kind.
//
// Sharing is by identity: the same Node value may be a child of several
// parents. Nodes are treated as immutable once built; the Modifier and
// Transform traversals clone before mutating.
type Node interface {
	ID() ID
	Origin() ID
	Source() SourceInfo
	Kind() Kind
	Clone() Node
	Children(c *Children)
	SetChildren(r *Replacements)
	EqualShallow(other Node) bool

	base() *Base
}

// Base holds the identity shared by every node. Embed it by value.
//
// The zero Base has no identity; nodes must be created through an [Arena].
type Base struct {
	id     ID
	origin ID
	arena  *Arena
	Src    SourceInfo
}

// ID returns the node identity.
func (b *Base) ID() ID { return b.id }

// Origin returns the identity of the deepest node this one was cloned from,
// or its own identity if it is not a clone.
func (b *Base) Origin() ID { return b.origin }

// Source returns the source location, if any.
func (b *Base) Source() SourceInfo { return b.Src }

// Arena returns the arena that allocated the node.
func (b *Base) Arena() *Arena { return b.arena }

func (b *Base) base() *Base { return b }

// Derive returns a Base for a clone of b: same arena and source location, a
// fresh identity, and the origin of b.
func (b *Base) Derive() Base {
	errors.Check(b.arena != nil, errors.ErrCodeInternal, "clone of node without identity")
	nb := b.arena.NewAt(b.Src)
	nb.origin = b.origin
	return nb
}

// Arena issues node identities for one compilation unit. The cursor is the
// only mutable state; an Arena is not safe for concurrent use.
type Arena struct {
	name string
	next ID
}

// NewArena creates an arena whose first identity is 1.
func NewArena(name string) *Arena {
	return &Arena{name: name, next: 1}
}

// Name returns the arena name given to NewArena.
func (a *Arena) Name() string { return a.name }

// New allocates a Base with a fresh identity and no source location.
func (a *Arena) New() Base { return a.NewAt(SourceInfo{}) }

// NewAt allocates a Base with a fresh identity at the given location.
func (a *Arena) NewAt(src SourceInfo) Base {
	id := a.next
	a.next++
	return Base{id: id, origin: id, arena: a, Src: src}
}

// Allocated returns how many identities the arena has issued.
func (a *Arena) Allocated() int { return int(a.next - 1) }

// IsClone reports whether n was produced by cloning another node.
func IsClone(n Node) bool { return n.ID() != n.Origin() }

// BaseOf returns the embedded Base of n.
func BaseOf(n Node) *Base { return n.base() }

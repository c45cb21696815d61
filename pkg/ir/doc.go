// Package ir defines the node contract of the intermediate representation.
//
// Every IR element implements [Node]: a stable identity issued by a
// per-compilation-unit [Arena], an origin identity that survives cloning, a
// [Kind] tag from a closed registry, generic child enumeration into
// [Children], write-back through [Replacements], and shallow equality.
//
// # Children
//
// Concrete kinds enumerate their fields in a fixed order and close each
// traversal unit with an [Order]:
//
//	func (n *If) Children(c *ir.Children) {
//	    c.Add("cond", n.Cond)
//	    c.End(ir.Sequential)
//	    c.Add("then", n.Then)
//	    c.Add("else", n.Else)
//	    c.End(ir.Exclusive)
//	}
//
//	func (n *If) SetChildren(r *ir.Replacements) {
//	    n.Cond = ir.RequiredField[Expr](r)
//	    n.Then = ir.Field[ir.Node](r)
//	    n.Else = ir.Field[ir.Node](r)
//	}
//
// # Sharing
//
// The same node value may be reachable from several parents. Sharing is by
// identity, so the structure is a DAG. True cycles are only legal between
// kinds carrying [TraitGraphRegion].
//
// # Equality
//
// [Equal] compares kinds and immediate fields, [Same] additionally requires
// identical child instances, and [Equiv] compares whole subtrees
// structurally.
package ir

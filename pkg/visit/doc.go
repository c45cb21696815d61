// Package visit is the traversal and rewriting engine of the IR.
//
// A pass implements one of three contracts and is wrapped in a [Visitor]:
//
//   - [Inspector] reads the tree. Apply returns the root it was given.
//   - [Modifier] edits nodes in place, copy-on-write: every visited node is
//     cloned before the pass sees it, and clones that end up unchanged are
//     dropped again so untouched subtrees stay shared.
//   - [Transform] replaces nodes arbitrarily: by another node, by nothing
//     (deletion) or by an [ir.List] spliced into a sequence.
//
// # Shared nodes and loops
//
// The tree may share nodes between parents. Each Apply keeps a memo table
// keyed by node identity: a shared node is visited once, later encounters
// get its cached result through Revisit. Reaching a node again while it is
// still being visited is a loop, reported to LoopRevisit, whose default is
// an internal fault.
//
// # Control flow
//
// Passes whose value implements [Flow] carry analysis state. The children
// of independent and exclusive groups then run as [SplitFlow] branches,
// each on its own copy of the state, merged back once all branches finish.
// [NewControlFlow] additionally enables join points: nodes with several
// predecessors are visited once, by the last predecessor to arrive, with
// the merged state of all of them. Back-edges into kinds carrying
// [ir.TraitGraphRegion] are allowed under this mode.
//
// # Usage
//
//	type countConsts struct {
//	    visit.InspectorBase
//	    n int
//	}
//
//	func (c *countConsts) Postorder(_ *visit.Visitor, n ir.Node) {
//	    if n.Kind() == lang.KindConst {
//	        c.n++
//	    }
//	}
//
//	p := &countConsts{}
//	visit.NewInspector(p).Apply(root)
package visit

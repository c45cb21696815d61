package passes

import (
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// DeadCode removes statements that can never have an effect.
//
//   - Nop statements are deleted.
//   - An If whose condition is a constant is replaced by the branch it
//     always takes, or deleted when that branch is missing.
//   - A Block directly inside a sequence is spliced into it.
//
// Run ConstFold first to expose constant conditions.
type DeadCode struct {
	visit.TransformBase
	Removed int
}

func (p *DeadCode) Preorder(v *visit.Visitor, n ir.Node) ir.Node {
	if n.Kind() == lang.KindParser {
		v.Prune()
	}
	return n
}

func (p *DeadCode) Postorder(v *visit.Visitor, n ir.Node) ir.Node {
	switch x := n.(type) {
	case *lang.Nop:
		p.Removed++
		return nil
	case *lang.If:
		c, ok := x.Cond.(*lang.Const)
		if !ok {
			return n
		}
		p.Removed++
		taken := x.Else
		if c.Value != 0 {
			taken = x.Then
		}
		if b, ok := taken.(*lang.Block); ok && inSequence(v) {
			return ir.NewList(ir.BaseOf(b).Arena(), b.Stmts...)
		}
		return taken
	case *lang.Block:
		if inSequence(v) {
			return ir.NewList(ir.BaseOf(x).Arena(), x.Stmts...)
		}
	}
	return n
}

// inSequence reports whether the current node sits in a statement
// sequence, where a list result is spliced.
func inSequence(v *visit.Visitor) bool {
	f := v.Parent()
	return f != nil && f.Node.Kind().Is(ir.TraitSeq)
}

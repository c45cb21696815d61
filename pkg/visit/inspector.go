package visit

import "github.com/matzehuels/irwalk/pkg/ir"

func (v *Visitor) inspect(n ir.Node, name string, index int) ir.Node {
	f := v.push(n, name, index)
	defer v.pop(f)

	t := v.s.tracker
	switch {
	case t.busy(n):
		v.loop(n)
	case t.done(n):
		v.insp.Revisit(v, n)
	case v.joinFlows(n):
		// Not the last predecessor of a join point; the node is visited
		// when the last one arrives.
	default:
		t.start(n, !v.revisitShared)
		v.s.visited++
		if v.preorder(f, func() bool { return v.insp.Preorder(v, n) }) {
			v.visitChildren(f)
			v.insp.Postorder(v, n)
		}
		t.finish(n, n)
	}
	return n
}

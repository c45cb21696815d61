package visit

import "github.com/matzehuels/irwalk/pkg/ir"

// modify clones n before running the pass on it. If the clone ends up
// shallow-equal to n with the same children, n is kept and the clone
// dropped, so untouched subtrees stay shared.
func (v *Visitor) modify(n ir.Node, name string, index int) ir.Node {
	f := v.push(n, name, index)
	defer v.pop(f)

	t := v.s.tracker
	if t.busy(n) {
		v.loop(n)
		return n
	}
	if t.done(n) {
		r := t.result(n)
		v.mod.Revisit(v, n, r)
		return r
	}
	t.start(n, !v.revisitShared)
	v.s.visited++

	cp := n.Clone()
	f.Node = cp
	if v.preorder(f, func() bool { return v.mod.Preorder(v, cp) }) {
		v.visitChildren(f)
		v.mod.Postorder(v, cp)
	}
	return t.finish(n, cp)
}

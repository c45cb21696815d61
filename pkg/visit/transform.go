package visit

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

func (v *Visitor) transform(n ir.Node, name string, index int) ir.Node {
	f := v.push(n, name, index)
	defer v.pop(f)

	t := v.s.tracker
	if t.busy(n) {
		v.loop(n)
		return n
	}
	if t.done(n) {
		r := t.result(n)
		v.tr.Revisit(v, n, r)
		return r
	}
	t.start(n, !v.revisitShared)
	v.s.visited++

	cp := n.Clone()
	f.Node = cp
	var pre ir.Node
	descend := v.preorder(f, func() bool {
		pre = v.tr.Preorder(v, cp)
		return true
	})

	final := pre
	extra := false
	if pre != cp {
		errors.Check(pre != n, errors.ErrCodeInternal, "%s: Preorder returned the original %s", v.name, ir.Dbp(n))
		switch {
		case pre == nil:
			descend = false
		case t.done(pre):
			final = t.result(pre)
			descend = false
		default:
			// A new node: visit it in place of n.
			if t.busy(pre) {
				v.loop(pre)
				descend = false
				break
			}
			extra = true
			t.start(pre, !v.revisitShared)
			cp = pre.Clone()
			f.Node = cp
		}
	}
	if descend {
		v.visitChildren(f)
		final = v.tr.Postorder(v, cp)
	} else if extra {
		final = cp
	}

	// An untouched working copy of the pre-step result is discarded in
	// favour of that result.
	if final == cp && pre != nil && final != pre && ir.Same(final, pre) {
		final = pre
	}
	res := t.finish(n, final)
	if extra {
		t.finish(pre, res)
	}
	return res
}

package passes

import (
	"github.com/matzehuels/irwalk/pkg/diag"
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// ConstFold replaces every Binary over two constants by its value. Folding
// runs bottom-up, so nested constant expressions collapse completely.
// Division by a constant zero is reported and left in place.
type ConstFold struct {
	visit.TransformBase
	Sink   *diag.Sink
	Folded int
}

// NewConstFold returns a ConstFold reporting to sink, or to diag.Default()
// if sink is nil.
func NewConstFold(sink *diag.Sink) *ConstFold {
	if sink == nil {
		sink = diag.Default()
	}
	return &ConstFold{Sink: sink}
}

func (p *ConstFold) Preorder(v *visit.Visitor, n ir.Node) ir.Node {
	if n.Kind() == lang.KindParser {
		v.Prune()
	}
	return n
}

func (p *ConstFold) Postorder(v *visit.Visitor, n ir.Node) ir.Node {
	b, ok := n.(*lang.Binary)
	if !ok {
		return n
	}
	l, lok := b.L.(*lang.Const)
	r, rok := b.R.(*lang.Const)
	if !lok || !rok {
		return n
	}
	val, err := lang.Eval(b.Op, l.Value, r.Value)
	if err != nil {
		p.Sink.Errorf(v.Original(), errors.GetCode(err), "cannot fold %d %s %d", l.Value, b.Op, r.Value)
		return n
	}
	p.Folded++
	base := ir.BaseOf(b)
	return &lang.Const{Base: base.Arena().NewAt(base.Source()), Value: val}
}

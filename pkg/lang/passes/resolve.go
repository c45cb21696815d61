package passes

import (
	"github.com/matzehuels/irwalk/pkg/diag"
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Resolve checks that every variable read was assigned somewhere before
// it in program order. Branches do not scope names: an assignment in
// either arm of an If is visible after the If. Unknown names are reported
// to the sink.
type Resolve struct {
	visit.InspectorBase
	Sink *diag.Sink

	Refs int

	defined map[string]bool
	saved   []map[string]bool
}

// NewResolve returns a Resolve reporting to sink, or to diag.Default() if
// sink is nil.
func NewResolve(sink *diag.Sink) *Resolve {
	if sink == nil {
		sink = diag.Default()
	}
	return &Resolve{Sink: sink, defined: make(map[string]bool)}
}

func (r *Resolve) Preorder(_ *visit.Visitor, n ir.Node) bool {
	switch x := n.(type) {
	case *lang.Ref:
		r.Refs++
		if !r.defined[x.Name] {
			r.Sink.Errorf(x, errors.ErrCodeUnresolved, "unresolved name %q", x.Name)
		}
	case *lang.Parser:
		// Names assigned inside a parser are not visible after it.
		r.saved = append(r.saved, r.defined)
		r.defined = cloneSet(r.defined)
	}
	return true
}

// Postorder defines assigned names only after their value, so x = x + 1
// reads an undefined x.
func (r *Resolve) Postorder(_ *visit.Visitor, n ir.Node) {
	switch x := n.(type) {
	case *lang.Assign:
		r.defined[x.Name] = true
	case *lang.Parser:
		last := len(r.saved) - 1
		r.defined = r.saved[last]
		r.saved = r.saved[:last]
	}
}

// LoopRevisit accepts parser back-edges.
func (r *Resolve) LoopRevisit(*visit.Visitor, ir.Node) {}

// Defined reports whether name was assigned in the traversed program.
func (r *Resolve) Defined(name string) bool { return r.defined[name] }

func cloneSet(s map[string]bool) map[string]bool {
	cp := make(map[string]bool, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

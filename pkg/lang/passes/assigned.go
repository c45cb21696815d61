package passes

import (
	"github.com/matzehuels/irwalk/pkg/diag"
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Assigned is a definite-assignment analysis. It tracks the variables
// assigned on some path (may) and on every path (must) to each point of
// the program, and warns about reads of variables that are assigned on
// some paths only. Reads of variables never assigned are left to Resolve.
//
// Run it with visit.NewControlFlow. Assignments inside a parser are not
// visible after it.
type Assigned struct {
	visit.InspectorBase
	Sink *diag.Sink

	// May and Must hold the sorted result at the end of the program.
	May, Must []string

	may, must map[string]bool
	saved     []*Assigned
}

// NewAssigned returns an Assigned reporting to sink, or to diag.Default()
// if sink is nil.
func NewAssigned(sink *diag.Sink) *Assigned {
	if sink == nil {
		sink = diag.Default()
	}
	return &Assigned{Sink: sink, may: make(map[string]bool), must: make(map[string]bool)}
}

func (a *Assigned) Preorder(_ *visit.Visitor, n ir.Node) bool {
	switch x := n.(type) {
	case *lang.Ref:
		if a.may[x.Name] && !a.must[x.Name] {
			a.Sink.Warnf(x, errors.ErrCodeUnresolved, "%s may be used before assignment", x.Name)
		}
	case *lang.Parser:
		a.saved = append(a.saved, a.FlowClone().(*Assigned))
	}
	return true
}

func (a *Assigned) Postorder(_ *visit.Visitor, n ir.Node) {
	switch x := n.(type) {
	case *lang.Assign:
		a.may[x.Name] = true
		a.must[x.Name] = true
	case *lang.Parser:
		last := len(a.saved) - 1
		a.FlowCopy(a.saved[last])
		a.saved = a.saved[:last]
	}
}

// Finish records the state at the end of the program.
func (a *Assigned) Finish(*visit.Visitor, ir.Node) {
	a.May = sortedKeys(a.may)
	a.Must = sortedKeys(a.must)
}

func (a *Assigned) FlowClone() visit.Flow {
	return &Assigned{
		Sink:  a.Sink,
		may:   cloneSet(a.may),
		must:  cloneSet(a.must),
		saved: append([]*Assigned(nil), a.saved...),
	}
}

// FlowMerge unions the may sets and intersects the must sets.
func (a *Assigned) FlowMerge(other visit.Flow) {
	o := other.(*Assigned)
	for k := range o.may {
		a.may[k] = true
	}
	for k := range a.must {
		if !o.must[k] {
			delete(a.must, k)
		}
	}
}

func (a *Assigned) FlowCopy(other visit.Flow) {
	o := other.(*Assigned)
	a.may = cloneSet(o.may)
	a.must = cloneSet(o.must)
}

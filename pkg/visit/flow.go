package visit

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// joinPoint is the record of a node with several forward predecessors.
type joinPoint struct {
	node    ir.Node
	preds   int
	pending int
	acc     Flow
	done    bool
}

type joinTable struct {
	points map[ir.Node]*joinPoint
	order  []*joinPoint // first-arrival order
}

// JoinStatus describes a join point during a control-flow traversal.
type JoinStatus struct {
	Predecessors int
	Pending      int
	Done         bool
}

// edgeCounter counts the forward in-edges of every node. Re-entries into a
// node in progress are back-edges and do not count.
type edgeCounter struct {
	InspectorBase
	counts map[ir.Node]int
	order  []ir.Node
}

func (c *edgeCounter) Preorder(_ *Visitor, n ir.Node) bool {
	c.counts[n]++
	c.order = append(c.order, n)
	return true
}

func (c *edgeCounter) Revisit(_ *Visitor, n ir.Node) { c.counts[n]++ }
func (c *edgeCounter) LoopRevisit(*Visitor, ir.Node) {}

func setupJoins(root ir.Node, filter JoinFilter) *joinTable {
	c := &edgeCounter{counts: make(map[ir.Node]int)}
	setup := NewInspector(c, WithName("join-setup"))
	setup.quiet = true
	setup.Apply(root)

	jt := &joinTable{points: make(map[ir.Node]*joinPoint)}
	for _, n := range c.order {
		k := c.counts[n]
		if k < 2 || (filter != nil && filter.FilterJoinPoint(n)) {
			continue
		}
		jt.points[n] = &joinPoint{node: n, preds: k, pending: k}
	}
	return jt
}

// JoinStatus returns the join record of n, if n is a join point of the
// running control-flow traversal.
func (v *Visitor) JoinStatus(n ir.Node) (JoinStatus, bool) {
	jt := v.session().joins
	if jt == nil {
		return JoinStatus{}, false
	}
	jp, ok := jt.points[n]
	if !ok {
		return JoinStatus{}, false
	}
	return JoinStatus{Predecessors: jp.preds, Pending: jp.pending, Done: jp.done}, true
}

// joinFlows records the arrival of the visitor's flow at n and reports
// whether the visit must be deferred because other predecessors of n are
// still outstanding. The last arrival takes over the merged state of all
// arrivals and visits n.
func (v *Visitor) joinFlows(n ir.Node) bool {
	jt := v.s.joins
	if jt == nil {
		return false
	}
	jp, ok := jt.points[n]
	if !ok || jp.done {
		return false
	}
	if jp.acc == nil {
		jp.acc = v.flow.FlowClone()
		jt.order = append(jt.order, jp)
	} else {
		jp.acc.FlowMerge(v.flow)
	}
	jp.pending--
	v.s.hooks.OnJoin(v.ctx, v.name, ir.Dbp(n), jp.pending)

	if jp.pending > 0 {
		v.interleave(jp)
		return true
	}
	jp.done = true
	v.flow.FlowCopy(jp.acc)
	return false
}

// interleave runs pending branches of the enclosing split flows, innermost
// first, until jp has been visited or no branch is ready.
func (v *Visitor) interleave(jp *joinPoint) {
	for s := v.s.split; s != nil && !jp.done; s = s.prev {
		for !jp.done && s.Ready() {
			s.Step()
		}
	}
}

// drainJoins visits join points whose remaining predecessors were never
// reached, in first-arrival order, each with the state merged so far.
func (v *Visitor) drainJoins() {
	jt := v.s.joins
	if jt == nil {
		return
	}
	for i := 0; i < len(jt.order); i++ {
		jp := jt.order[i]
		if jp.done {
			continue
		}
		v.logger.Debug("draining join point", "pass", v.name, "node", ir.Dbp(jp.node), "pending", jp.pending)
		jp.done = true
		c := v.flowClone()
		c.flow.FlowCopy(jp.acc)
		c.top = nil
		c.visit(jp.node, "", 0)
	}
}

// flowClone returns a visitor sharing v's traversal with an independent
// copy of its flow state. Without flow state it returns v.
func (v *Visitor) flowClone() *Visitor {
	if v.flow == nil {
		return v
	}
	cp := *v
	cp.flow = v.flow.FlowClone()
	switch v.variant {
	case VariantModifier:
		cp.mod = mustPass[Modifier](v, cp.flow)
	case VariantTransform:
		cp.tr = mustPass[Transform](v, cp.flow)
	default:
		cp.insp = mustPass[Inspector](v, cp.flow)
	}
	return &cp
}

func mustPass[P any](v *Visitor, f Flow) P {
	p, ok := f.(P)
	errors.Check(ok, errors.ErrCodeBadCast, "%s: FlowClone returned %T", v.name, f)
	return p
}

func (v *Visitor) mustFlow() Flow {
	errors.Check(v.flow != nil, errors.ErrCodeInternal, "%s: pass carries no flow state", v.name)
	return v.flow
}

func (s *session) globalMap() map[string]Flow {
	if s.globals == nil {
		s.globals = make(map[string]Flow)
	}
	return s.globals
}

// MergeGlobalTo merges the current flow state into the global named key,
// creating it from a clone on first use. Globals carry state across
// non-local control transfers such as exits.
func (v *Visitor) MergeGlobalTo(key string) {
	f := v.mustFlow()
	g := v.session().globalMap()
	if cur, ok := g[key]; ok {
		cur.FlowMerge(f)
		return
	}
	g[key] = f.FlowClone()
}

// MergeGlobalFrom merges the global named key, if set, into the current
// flow state.
func (v *Visitor) MergeGlobalFrom(key string) {
	f := v.mustFlow()
	if cur, ok := v.session().globalMap()[key]; ok {
		f.FlowMerge(cur)
	}
}

// EraseGlobal drops the global named key.
func (v *Visitor) EraseGlobal(key string) { delete(v.session().globalMap(), key) }

// CheckGlobal reports whether the global named key is set.
func (v *Visitor) CheckGlobal(key string) bool {
	_, ok := v.session().globalMap()[key]
	return ok
}

// GuardGlobal checks that no global named key is set and returns a func
// that erases it, for use with defer around the region that merges into
// key. Guarding a key that is already set is a fault.
func (v *Visitor) GuardGlobal(key string) func() {
	errors.Check(!v.CheckGlobal(key), errors.ErrCodeInternal, "%s: global %q already in use", v.name, key)
	return func() { v.EraseGlobal(key) }
}

// ClearGlobals drops all globals.
func (v *Visitor) ClearGlobals() { clear(v.session().globalMap()) }

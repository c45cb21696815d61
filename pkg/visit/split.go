package visit

import (
	"fmt"
	"reflect"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Target is a branch of a [SplitFlow]: a node to visit and, optionally, a
// place to store the result.
type Target struct {
	node  ir.Node
	name  string
	index int
	set   func(ir.Node)
}

// Const targets n without storing the result.
func Const(n ir.Node) Target {
	return Target{node: n, index: -1}
}

// Slot targets the node held in *p and stores the result back into *p.
// A deleted result stores the zero T.
func Slot[T ir.Node](p *T) Target {
	return Target{node: nodeOf(*p), index: -1, set: func(n ir.Node) {
		if n == nil {
			var zero T
			*p = zero
			return
		}
		*p = ir.MustAs[T](n)
	}}
}

// Named returns t with a field name for context queries.
func (t Target) Named(name string) Target {
	t.name = name
	return t
}

// nodeOf converts t to an ir.Node, mapping typed nil pointers to nil.
func nodeOf[T ir.Node](t T) ir.Node {
	n := ir.Node(t)
	if n == nil {
		return nil
	}
	if rv := reflect.ValueOf(n); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return n
}

// SplitFlow visits independent branches, each with its own copy of the
// visitor's flow state, and merges the branch states back into the
// originating visitor. Branches run one at a time in registration order.
// While a branch waits at a join point for predecessors in later branches,
// those branches are stepped early; Pause keeps a split from being stepped.
//
// The first branch runs on the originating visitor itself; every other
// branch gets a flow clone taken when it is added.
type SplitFlow struct {
	v        *Visitor
	prev     *SplitFlow
	targets  []Target
	visitors []*Visitor
	next     int
	paused   bool
}

// NewSplitFlow creates a split over targets for the running traversal of v.
func NewSplitFlow(v *Visitor, targets ...Target) *SplitFlow {
	s := &SplitFlow{v: v}
	for _, t := range targets {
		s.Add(t)
	}
	return s
}

// Add registers another branch. Branches cannot be added once visiting
// started.
func (s *SplitFlow) Add(t Target) {
	errors.Check(s.next == 0, errors.ErrCodeInternal, "branch added to %s after visiting started", s)
	if t.index < 0 {
		t.index = len(s.targets)
	}
	vis := s.v
	if len(s.visitors) > 0 {
		vis = s.v.flowClone()
	}
	s.targets = append(s.targets, t)
	s.visitors = append(s.visitors, vis)
}

// Len returns the number of branches.
func (s *SplitFlow) Len() int { return len(s.targets) }

// Finished reports whether every branch has been visited.
func (s *SplitFlow) Finished() bool { return s.next >= len(s.targets) }

// Ready reports whether the split can be stepped.
func (s *SplitFlow) Ready() bool { return !s.Finished() && !s.paused }

// Pause keeps the split from being stepped until Resume or Run.
func (s *SplitFlow) Pause() { s.paused = true }

// Resume undoes Pause.
func (s *SplitFlow) Resume() { s.paused = false }

// Step visits the next branch and reports whether branches remain.
// Stepping a paused split is an internal fault.
func (s *SplitFlow) Step() bool {
	if s.Finished() {
		return false
	}
	errors.Check(!s.paused, errors.ErrCodeInternal, "stepping paused %s", s)
	i := s.next
	s.next++
	t := s.targets[i]
	r := s.visitors[i].visitSlot(t.node, t.name, t.index)
	if t.set != nil {
		t.set(r)
	}
	return !s.Finished()
}

// Run visits all remaining branches and merges the branch states into the
// originating visitor.
func (s *SplitFlow) Run() {
	sess := s.v.session()
	s.prev, sess.split = sess.split, s
	defer func() { sess.split = s.prev }()

	s.paused = false
	for !s.Finished() {
		s.Step()
	}
	for _, c := range s.visitors {
		if c != s.v {
			s.v.flow.FlowMerge(c.flow)
		}
	}
}

func (s *SplitFlow) String() string {
	return fmt.Sprintf("SplitFlow processed %d of %d", s.next, len(s.targets))
}

// splitGroup runs an independent or exclusive group of children as split
// branches. Nil independent children are skipped; a nil exclusive child is
// a fall-through path whose branch carries the state unchanged. It reports
// false, leaving the group to the sequential loop, when fewer than two
// branches result.
func (v *Visitor) splitGroup(g ir.Group, results []ir.Node) bool {
	var targets []Target
	for _, sl := range g.Slots {
		if sl.Node == nil && g.Order == ir.Independent {
			continue
		}
		t := Target{node: sl.Node, name: sl.Name, index: sl.Index}
		if results != nil {
			idx := sl.Index
			t.set = func(n ir.Node) { results[idx] = n }
		}
		targets = append(targets, t)
	}
	if len(targets) < 2 {
		return false
	}
	NewSplitFlow(v, targets...).Run()
	return true
}

// SplitSeq visits every element of *items as its own split branch and
// folds the results back: a nil result deletes the element, an [ir.List]
// is spliced in place, anything else replaces the element and must be a T.
func SplitSeq[T ir.Node](v *Visitor, items *[]T) {
	results := make([]ir.Node, len(*items))
	s := &SplitFlow{v: v}
	for i, it := range *items {
		idx := i
		s.Add(Target{node: nodeOf(it), index: -1, set: func(n ir.Node) { results[idx] = n }})
	}
	s.Run()

	out := make([]T, 0, len(*items))
	for i, r := range results {
		switch l := r.(type) {
		case nil:
		case *ir.List:
			for _, el := range l.Items {
				out = append(out, ir.MustAs[T](el))
			}
		default:
			if r == nodeOf((*items)[i]) {
				out = append(out, (*items)[i])
				continue
			}
			out = append(out, ir.MustAs[T](r))
		}
	}
	*items = out
}

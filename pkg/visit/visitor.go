package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/observability"
)

// Variant names the traversal contract a Visitor implements.
type Variant uint8

const (
	VariantInspector Variant = iota
	VariantModifier
	VariantTransform
)

func (k Variant) String() string {
	switch k {
	case VariantInspector:
		return "inspector"
	case VariantModifier:
		return "modifier"
	case VariantTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Option configures a Visitor.
type Option func(*Visitor)

// WithName overrides the visitor name used in logs and faults. The default
// is the pass type name.
func WithName(name string) Option {
	return func(v *Visitor) { v.name = name }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(v *Visitor) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithRevisitShared makes shared nodes be visited once per parent instead
// of once per traversal. Individual nodes can still opt back with
// [Visitor.VisitOnce].
func WithRevisitShared(revisit bool) Option {
	return func(v *Visitor) { v.revisitShared = revisit }
}

// WithContext sets the context handed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(v *Visitor) {
		if ctx != nil {
			v.ctx = ctx
		}
	}
}

// Visitor drives one pass over an IR tree. It is not safe for concurrent
// use; independent traversals need independent Visitors, which may share
// the same input tree.
type Visitor struct {
	name          string
	variant       Variant
	insp          Inspector
	mod           Modifier
	tr            Transform
	flow          Flow
	joins         bool
	filter        JoinFilter
	revisitShared bool
	quiet         bool
	logger        *log.Logger
	ctx           context.Context

	s   *session
	top *Frame
}

// session is the state owned by one Apply call and shared by the flow
// clones made during it.
type session struct {
	tracker *tracker
	joins   *joinTable
	split   *SplitFlow
	globals map[string]Flow
	hooks   observability.TraversalHooks
	visited int
}

func newVisitor(variant Variant, pass any, opts []Option) *Visitor {
	v := &Visitor{
		name:    passName(pass),
		variant: variant,
		logger:  log.Default(),
		ctx:     context.Background(),
	}
	v.flow, _ = pass.(Flow)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func passName(pass any) string {
	name := fmt.Sprintf("%T", pass)
	name = strings.TrimPrefix(name, "*")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// NewInspector returns a Visitor running p as a read-only pass.
func NewInspector(p Inspector, opts ...Option) *Visitor {
	v := newVisitor(VariantInspector, p, opts)
	v.insp = p
	return v
}

// NewModifier returns a Visitor running p as a copy-on-write pass.
func NewModifier(p Modifier, opts ...Option) *Visitor {
	v := newVisitor(VariantModifier, p, opts)
	v.mod = p
	return v
}

// NewTransform returns a Visitor running p as a rewriting pass.
func NewTransform(p Transform, opts ...Option) *Visitor {
	v := newVisitor(VariantTransform, p, opts)
	v.tr = p
	return v
}

// NewControlFlow returns an Inspector Visitor with the join extension
// enabled. p must implement [Flow]; it may implement [JoinFilter].
func NewControlFlow(p Inspector, opts ...Option) *Visitor {
	v := NewInspector(p, opts...)
	errors.Check(v.flow != nil, errors.ErrCodeBadCast, "%s: control-flow pass does not implement Flow", v.name)
	v.joins = true
	v.filter, _ = p.(JoinFilter)
	return v
}

// Name returns the visitor name.
func (v *Visitor) Name() string { return v.name }

// Variant returns the traversal contract of the visitor.
func (v *Visitor) Variant() Variant { return v.variant }

// Logger returns the visitor's logger.
func (v *Visitor) Logger() *log.Logger { return v.logger }

// Pass returns the pass value the visitor calls. Inside a split-flow branch
// this is the branch's clone.
func (v *Visitor) Pass() any {
	switch v.variant {
	case VariantModifier:
		return v.mod
	case VariantTransform:
		return v.tr
	default:
		return v.insp
	}
}

// Flow returns the pass's flow state, or nil if the pass carries none.
func (v *Visitor) Flow() Flow { return v.flow }

// HasJoinFlows reports whether the join extension is enabled.
func (v *Visitor) HasJoinFlows() bool { return v.joins }

// Apply runs the pass over the tree rooted at root and returns the
// resulting root: root itself for an Inspector, possibly a new node (or
// nil, if the root was deleted) otherwise.
//
// Every Apply owns a fresh memo table; nothing is carried over from
// earlier traversals. Internal faults propagate as panics carrying an
// *errors.Error.
func (v *Visitor) Apply(root ir.Node) ir.Node {
	errors.Check(v.s == nil, errors.ErrCodeInternal, "%s: Apply called during its own traversal", v.name)
	begin := time.Now()
	var hooks observability.TraversalHooks = observability.NoopTraversalHooks{}
	if !v.quiet {
		hooks = observability.Traversal()
	}
	hooks.OnApplyStart(v.ctx, v.name, v.variant.String())

	v.s = &session{tracker: newTracker(), hooks: hooks}
	defer func() { v.s, v.top = nil, nil }()

	if st, ok := v.Pass().(Starter); ok {
		st.Start(v, root)
	}
	if v.joins {
		v.s.joins = setupJoins(root, v.filter)
	}
	result := v.visit(root, "", 0)
	v.drainJoins()
	if fin, ok := v.Pass().(Finisher); ok {
		fin.Finish(v, result)
	}

	elapsed := time.Since(begin)
	hooks.OnApplyComplete(v.ctx, v.name, v.variant.String(), v.s.visited, elapsed)
	v.logger.Debug("traversal complete", "pass", v.name, "variant", v.variant,
		"visited", v.s.visited, "duration", elapsed)
	return result
}

func (v *Visitor) session() *session {
	errors.Check(v.s != nil, errors.ErrCodeNoContext, "%s: used outside a traversal", v.name)
	return v.s
}

// Visit visits n as the next child of the current node and returns the
// result. Passes use it to visit children by hand from a Preorder that
// returns false.
func (v *Visitor) Visit(n ir.Node, name string) ir.Node {
	return v.visitSlot(n, name, v.frame().visited)
}

// VisitConst is like Visit for a child the caller cannot replace. A
// result that differs from n is an internal fault.
func (v *Visitor) VisitConst(n ir.Node, name string) {
	r := v.Visit(n, name)
	errors.Check(r == n, errors.ErrCodeConstVisit, "%s: visit of const child %s returned %s",
		v.name, ir.Dbp(n), ir.Dbp(r))
}

// Prune skips the children and the Postorder of the current node. It is
// valid only inside Preorder.
func (v *Visitor) Prune() {
	f := v.frame()
	errors.Check(f.inPre, errors.ErrCodePruneOutsidePreorder, "%s: Prune outside Preorder of %s", v.name, ir.Dbp(f.Node))
	f.pruned = true
}

// VisitOnce marks the current node to be visited only once in this
// traversal even if it is shared.
func (v *Visitor) VisitOnce() { v.session().tracker.setVisitOnce(v.frame().Original, true) }

// VisitAgain marks the current node to be visited again each time it is
// reached.
func (v *Visitor) VisitAgain() { v.session().tracker.setVisitOnce(v.frame().Original, false) }

// RevisitVisited forgets every finished node so that later encounters
// visit them again.
func (v *Visitor) RevisitVisited() { v.session().tracker.forget() }

// State returns the visit state of n in the running traversal.
func (v *Visitor) State(n ir.Node) State { return v.session().tracker.state(n) }

// Visited returns the number of nodes whose pre-step ran so far.
func (v *Visitor) Visited() int { return v.session().visited }

func (v *Visitor) push(n ir.Node, name string, index int) *Frame {
	f := &Frame{Node: n, Original: n, Parent: v.top, Index: index, Name: name, Depth: 1}
	if v.top != nil {
		f.Depth = v.top.Depth + 1
	}
	v.top = f
	return f
}

func (v *Visitor) pop(f *Frame) { v.top = f.Parent }

func (v *Visitor) visitSlot(n ir.Node, name string, index int) ir.Node {
	if v.top != nil {
		v.top.visited++
	}
	return v.visit(n, name, index)
}

func (v *Visitor) visit(n ir.Node, name string, index int) ir.Node {
	if n == nil {
		return nil
	}
	switch v.variant {
	case VariantModifier:
		return v.modify(n, name, index)
	case VariantTransform:
		return v.transform(n, name, index)
	default:
		return v.inspect(n, name, index)
	}
}

// loop handles a re-entry into n while n is in progress.
func (v *Visitor) loop(n ir.Node) {
	benign := v.joins && n.Kind().Is(ir.TraitGraphRegion)
	v.s.hooks.OnLoop(v.ctx, v.name, ir.Dbp(n), benign)
	if benign {
		v.logger.Debug("back-edge", "pass", v.name, "node", ir.Dbp(n))
		return
	}
	switch v.variant {
	case VariantModifier:
		v.mod.LoopRevisit(v, n)
	case VariantTransform:
		v.tr.LoopRevisit(v, n)
	default:
		v.insp.LoopRevisit(v, n)
	}
}

// preorder runs fn as the pre-step of frame f and reports whether the
// children must be visited.
func (v *Visitor) preorder(f *Frame, fn func() bool) bool {
	f.inPre = true
	descend := fn()
	f.inPre = false
	return descend && !f.pruned
}

// visitChildren visits the children of the frame's working node group by
// group and, for rewriting passes, writes the results back into it.
func (v *Visitor) visitChildren(f *Frame) {
	n := f.Node
	c := ir.ChildrenOf(n)
	var results []ir.Node
	if v.variant != VariantInspector {
		results = make([]ir.Node, c.Len())
	}
	for _, g := range c.Groups() {
		if v.flow != nil && g.Order != ir.Sequential && v.splitGroup(g, results) {
			continue
		}
		for _, s := range g.Slots {
			r := v.visitSlot(s.Node, s.Name, s.Index)
			if results != nil {
				results[s.Index] = r
			}
		}
	}
	if results != nil {
		r := c.Replace(results)
		n.SetChildren(r)
		r.Done()
	}
}

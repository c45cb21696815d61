package visit_test

import (
	"testing"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

var (
	kindNum   = ir.RegisterKind("vt.Num", ir.TraitExpr)
	kindOp    = ir.RegisterKind("vt.Op", ir.TraitExpr)
	kindFork  = ir.RegisterKind("vt.Fork", ir.TraitStmt)
	kindCond  = ir.RegisterKind("vt.Cond", ir.TraitStmt)
	kindState = ir.RegisterKind("vt.State", ir.TraitGraphRegion)
)

// num is a leaf carrying a value and an optional label.
type num struct {
	ir.Base
	Val   int
	Label string
}

func (n *num) Kind() ir.Kind                { return kindNum }
func (n *num) Clone() ir.Node               { cp := *n; cp.Base = n.Base.Derive(); return &cp }
func (n *num) Children(*ir.Children)        {}
func (n *num) SetChildren(*ir.Replacements) {}
func (n *num) Attrs() map[string]any        { return map[string]any{"val": n.Val} }
func (n *num) EqualShallow(o ir.Node) bool {
	on, ok := o.(*num)
	return ok && on.Val == n.Val && on.Label == n.Label
}

// op is an operator over a sequence of arguments.
type op struct {
	ir.Base
	Name string
	Args []ir.Node
}

func (n *op) Kind() ir.Kind { return kindOp }
func (n *op) Clone() ir.Node {
	cp := *n
	cp.Base = n.Base.Derive()
	cp.Args = append([]ir.Node(nil), n.Args...)
	return &cp
}
func (n *op) Children(c *ir.Children) {
	c.AddSeq("args", n.Args...)
	c.End(ir.Sequential)
}
func (n *op) SetChildren(r *ir.Replacements) { n.Args = r.Seq() }
func (n *op) EqualShallow(o ir.Node) bool {
	on, ok := o.(*op)
	return ok && on.Name == n.Name
}

// fork has two independent children.
type fork struct {
	ir.Base
	L, R ir.Node
}

func (n *fork) Kind() ir.Kind  { return kindFork }
func (n *fork) Clone() ir.Node { cp := *n; cp.Base = n.Base.Derive(); return &cp }
func (n *fork) Children(c *ir.Children) {
	c.Add("l", n.L)
	c.Add("r", n.R)
	c.End(ir.Independent)
}
func (n *fork) SetChildren(r *ir.Replacements) {
	n.L = ir.Field[ir.Node](r)
	n.R = ir.Field[ir.Node](r)
}
func (n *fork) EqualShallow(o ir.Node) bool { _, ok := o.(*fork); return ok }

// cond runs exactly one of Then and Else; a nil Else falls through.
type cond struct {
	ir.Base
	Pred       ir.Node
	Then, Else ir.Node
}

func (n *cond) Kind() ir.Kind  { return kindCond }
func (n *cond) Clone() ir.Node { cp := *n; cp.Base = n.Base.Derive(); return &cp }
func (n *cond) Children(c *ir.Children) {
	c.Add("pred", n.Pred)
	c.End(ir.Sequential)
	c.Add("then", n.Then)
	c.Add("else", n.Else)
	c.End(ir.Exclusive)
}
func (n *cond) SetChildren(r *ir.Replacements) {
	n.Pred = ir.Field[ir.Node](r)
	n.Then = ir.Field[ir.Node](r)
	n.Else = ir.Field[ir.Node](r)
}
func (n *cond) EqualShallow(o ir.Node) bool { _, ok := o.(*cond); return ok }

// state is a graph-region node whose successors may loop back.
type state struct {
	ir.Base
	Name  string
	Label string
	Next  []ir.Node
}

func (n *state) Kind() ir.Kind { return kindState }
func (n *state) Clone() ir.Node {
	cp := *n
	cp.Base = n.Base.Derive()
	cp.Next = append([]ir.Node(nil), n.Next...)
	return &cp
}
func (n *state) Children(c *ir.Children) {
	c.AddSeq("next", n.Next...)
	c.End(ir.Independent)
}
func (n *state) SetChildren(r *ir.Replacements) { n.Next = r.Seq() }
func (n *state) EqualShallow(o ir.Node) bool {
	on, ok := o.(*state)
	return ok && on.Name == n.Name && on.Label == n.Label
}

type builder struct{ a *ir.Arena }

func newBuilder() builder { return builder{a: ir.NewArena("test")} }

func (b builder) num(v int) *num { return &num{Base: b.a.New(), Val: v} }
func (b builder) op(name string, args ...ir.Node) *op {
	return &op{Base: b.a.New(), Name: name, Args: args}
}
func (b builder) fork(l, r ir.Node) *fork { return &fork{Base: b.a.New(), L: l, R: r} }
func (b builder) cond(p, t, e ir.Node) *cond {
	return &cond{Base: b.a.New(), Pred: p, Then: t, Else: e}
}
func (b builder) state(name, label string, next ...ir.Node) *state {
	return &state{Base: b.a.New(), Name: name, Label: label, Next: next}
}

func mustFault(t *testing.T, code errors.Code, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		e, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("recover() = %v, want *errors.Error with %s", r, code)
		}
		if e.Code != code {
			t.Errorf("fault code = %s, want %s (%v)", e.Code, code, e)
		}
	}()
	fn()
}

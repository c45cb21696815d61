// Package lang defines a small imperative IR used by the sample passes,
// the tree documents and the irwalk command.
//
// A [Program] holds a sequence of statements and parsers. Statements are
// [Assign], [If], [Block] and [Nop]; expressions are [Const], [Ref] and
// [Binary]. A [Parser] is a state machine: each [State] runs its
// statements and ends in a [Select] whose [Case] targets point directly at
// other states. Targets are shared nodes and may point backwards, so
// parsers form graph regions rather than trees.
package lang

import (
	"github.com/matzehuels/irwalk/pkg/ir"
)

var (
	KindProgram = ir.RegisterKind("Program", ir.TraitSeq)
	KindBlock   = ir.RegisterKind("Block", ir.TraitStmt|ir.TraitSeq)
	KindAssign  = ir.RegisterKind("Assign", ir.TraitStmt)
	KindIf      = ir.RegisterKind("If", ir.TraitStmt)
	KindNop     = ir.RegisterKind("Nop", ir.TraitStmt)
	KindConst   = ir.RegisterKind("Const", ir.TraitExpr)
	KindRef     = ir.RegisterKind("Ref", ir.TraitExpr)
	KindBinary  = ir.RegisterKind("Binary", ir.TraitExpr)
	KindParser  = ir.RegisterKind("Parser", ir.TraitStmt)
	KindState   = ir.RegisterKind("State", ir.TraitGraphRegion)
	KindSelect  = ir.RegisterKind("Select", ir.TraitStmt)
	KindCase    = ir.RegisterKind("Case", ir.TraitGraphRegion)
)

// Program is the root of a compilation unit.
type Program struct {
	ir.Base
	Name string
	Body []ir.Node
}

func (n *Program) Kind() ir.Kind { return KindProgram }
func (n *Program) Clone() ir.Node {
	cp := *n
	cp.Base = n.Derive()
	cp.Body = append([]ir.Node(nil), n.Body...)
	return &cp
}
func (n *Program) Children(c *ir.Children) {
	c.AddSeq("body", n.Body...)
	c.End(ir.Sequential)
}
func (n *Program) SetChildren(r *ir.Replacements) { n.Body = r.Seq() }
func (n *Program) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Program)
	return ok && on.Name == n.Name
}
func (n *Program) Attrs() map[string]any { return map[string]any{"name": n.Name} }

// Block is a statement sequence.
type Block struct {
	ir.Base
	Stmts []ir.Node
}

func (n *Block) Kind() ir.Kind { return KindBlock }
func (n *Block) Clone() ir.Node {
	cp := *n
	cp.Base = n.Derive()
	cp.Stmts = append([]ir.Node(nil), n.Stmts...)
	return &cp
}
func (n *Block) Children(c *ir.Children) {
	c.AddSeq("stmts", n.Stmts...)
	c.End(ir.Sequential)
}
func (n *Block) SetChildren(r *ir.Replacements) { n.Stmts = r.Seq() }
func (n *Block) EqualShallow(o ir.Node) bool    { _, ok := o.(*Block); return ok }

// Assign stores the value of an expression in a variable.
type Assign struct {
	ir.Base
	Name  string
	Value ir.Node
}

func (n *Assign) Kind() ir.Kind  { return KindAssign }
func (n *Assign) Clone() ir.Node { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Assign) Children(c *ir.Children) {
	c.Add("value", n.Value)
	c.End(ir.Sequential)
}
func (n *Assign) SetChildren(r *ir.Replacements) { n.Value = ir.RequiredField[ir.Node](r) }
func (n *Assign) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Assign)
	return ok && on.Name == n.Name
}
func (n *Assign) Attrs() map[string]any { return map[string]any{"name": n.Name} }

// If runs Then when Cond is non-zero and Else otherwise. A nil Else falls
// through.
type If struct {
	ir.Base
	Cond       ir.Node
	Then, Else ir.Node
}

func (n *If) Kind() ir.Kind  { return KindIf }
func (n *If) Clone() ir.Node { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *If) Children(c *ir.Children) {
	c.Add("cond", n.Cond)
	c.End(ir.Sequential)
	c.Add("then", n.Then)
	c.Add("else", n.Else)
	c.End(ir.Exclusive)
}
func (n *If) SetChildren(r *ir.Replacements) {
	n.Cond = ir.RequiredField[ir.Node](r)
	n.Then = ir.Field[ir.Node](r)
	n.Else = ir.Field[ir.Node](r)
}
func (n *If) EqualShallow(o ir.Node) bool { _, ok := o.(*If); return ok }

// Nop does nothing.
type Nop struct{ ir.Base }

func (n *Nop) Kind() ir.Kind                { return KindNop }
func (n *Nop) Clone() ir.Node               { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Nop) Children(*ir.Children)        {}
func (n *Nop) SetChildren(*ir.Replacements) {}
func (n *Nop) EqualShallow(o ir.Node) bool  { _, ok := o.(*Nop); return ok }

// Const is an integer literal.
type Const struct {
	ir.Base
	Value int64
}

func (n *Const) Kind() ir.Kind                { return KindConst }
func (n *Const) Clone() ir.Node               { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Const) Children(*ir.Children)        {}
func (n *Const) SetChildren(*ir.Replacements) {}
func (n *Const) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Const)
	return ok && on.Value == n.Value
}
func (n *Const) Attrs() map[string]any { return map[string]any{"value": n.Value} }

// Ref reads a variable.
type Ref struct {
	ir.Base
	Name string
}

func (n *Ref) Kind() ir.Kind                { return KindRef }
func (n *Ref) Clone() ir.Node               { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Ref) Children(*ir.Children)        {}
func (n *Ref) SetChildren(*ir.Replacements) {}
func (n *Ref) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Ref)
	return ok && on.Name == n.Name
}
func (n *Ref) Attrs() map[string]any { return map[string]any{"name": n.Name} }

// Binary applies an arithmetic or comparison operator. See [Eval] for the
// supported operators.
type Binary struct {
	ir.Base
	Op   string
	L, R ir.Node
}

func (n *Binary) Kind() ir.Kind  { return KindBinary }
func (n *Binary) Clone() ir.Node { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Binary) Children(c *ir.Children) {
	c.Add("l", n.L)
	c.Add("r", n.R)
	c.End(ir.Sequential)
}
func (n *Binary) SetChildren(r *ir.Replacements) {
	n.L = ir.RequiredField[ir.Node](r)
	n.R = ir.RequiredField[ir.Node](r)
}
func (n *Binary) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Binary)
	return ok && on.Op == n.Op
}
func (n *Binary) Attrs() map[string]any { return map[string]any{"op": n.Op} }

// Parser is a state machine entered at Start.
type Parser struct {
	ir.Base
	Name  string
	Start *State
}

func (n *Parser) Kind() ir.Kind  { return KindParser }
func (n *Parser) Clone() ir.Node { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Parser) Children(c *ir.Children) {
	c.Add("start", nodeOrNil(n.Start))
	c.End(ir.Sequential)
}
func (n *Parser) SetChildren(r *ir.Replacements) { n.Start = ir.Field[*State](r) }
func (n *Parser) EqualShallow(o ir.Node) bool {
	on, ok := o.(*Parser)
	return ok && on.Name == n.Name
}
func (n *Parser) Attrs() map[string]any { return map[string]any{"name": n.Name} }

// State is a parser state. A nil Select accepts.
type State struct {
	ir.Base
	Name   string
	Stmts  []ir.Node
	Select *Select
}

func (n *State) Kind() ir.Kind { return KindState }
func (n *State) Clone() ir.Node {
	cp := *n
	cp.Base = n.Derive()
	cp.Stmts = append([]ir.Node(nil), n.Stmts...)
	return &cp
}
func (n *State) Children(c *ir.Children) {
	c.AddSeq("stmts", n.Stmts...)
	c.End(ir.Sequential)
	c.Add("select", nodeOrNil(n.Select))
	c.End(ir.Sequential)
}
func (n *State) SetChildren(r *ir.Replacements) {
	n.Stmts = r.Seq()
	n.Select = ir.Field[*Select](r)
}
func (n *State) EqualShallow(o ir.Node) bool {
	on, ok := o.(*State)
	return ok && on.Name == n.Name
}
func (n *State) Attrs() map[string]any { return map[string]any{"name": n.Name} }

// Select picks exactly one case by the value of Key.
type Select struct {
	ir.Base
	Key   ir.Node
	Cases []ir.Node
}

func (n *Select) Kind() ir.Kind { return KindSelect }
func (n *Select) Clone() ir.Node {
	cp := *n
	cp.Base = n.Derive()
	cp.Cases = append([]ir.Node(nil), n.Cases...)
	return &cp
}
func (n *Select) Children(c *ir.Children) {
	c.Add("key", n.Key)
	c.End(ir.Sequential)
	c.AddSeq("cases", n.Cases...)
	c.End(ir.Exclusive)
}
func (n *Select) SetChildren(r *ir.Replacements) {
	n.Key = ir.RequiredField[ir.Node](r)
	n.Cases = r.Seq()
}
func (n *Select) EqualShallow(o ir.Node) bool { _, ok := o.(*Select); return ok }

// Case transitions to Target when the select key equals Value. A nil
// Value is the default case.
type Case struct {
	ir.Base
	Value  ir.Node
	Target *State
}

func (n *Case) Kind() ir.Kind  { return KindCase }
func (n *Case) Clone() ir.Node { cp := *n; cp.Base = n.Derive(); return &cp }
func (n *Case) Children(c *ir.Children) {
	c.Add("value", n.Value)
	c.Add("target", nodeOrNil(n.Target))
	c.End(ir.Sequential)
}
func (n *Case) SetChildren(r *ir.Replacements) {
	n.Value = ir.Field[ir.Node](r)
	n.Target = ir.RequiredField[*State](r)
}
func (n *Case) EqualShallow(o ir.Node) bool { _, ok := o.(*Case); return ok }

// nodeOrNil keeps a nil typed pointer from becoming a non-nil ir.Node.
func nodeOrNil[T interface {
	*E
	ir.Node
}, E any](p T) ir.Node {
	if p == nil {
		return nil
	}
	return p
}

package lang

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Builder allocates nodes from one arena.
type Builder struct {
	Arena *ir.Arena
}

// NewBuilder returns a builder over a fresh arena named name.
func NewBuilder(name string) *Builder {
	return &Builder{Arena: ir.NewArena(name)}
}

func (b *Builder) Program(name string, body ...ir.Node) *Program {
	return &Program{Base: b.Arena.New(), Name: name, Body: body}
}

func (b *Builder) Block(stmts ...ir.Node) *Block {
	return &Block{Base: b.Arena.New(), Stmts: stmts}
}

func (b *Builder) Assign(name string, value ir.Node) *Assign {
	return &Assign{Base: b.Arena.New(), Name: name, Value: value}
}

func (b *Builder) If(cond, then, els ir.Node) *If {
	return &If{Base: b.Arena.New(), Cond: cond, Then: then, Else: els}
}

func (b *Builder) Nop() *Nop { return &Nop{Base: b.Arena.New()} }

func (b *Builder) Const(v int64) *Const { return &Const{Base: b.Arena.New(), Value: v} }

func (b *Builder) Ref(name string) *Ref { return &Ref{Base: b.Arena.New(), Name: name} }

func (b *Builder) Binary(op string, l, r ir.Node) *Binary {
	return &Binary{Base: b.Arena.New(), Op: op, L: l, R: r}
}

func (b *Builder) Parser(name string, start *State) *Parser {
	return &Parser{Base: b.Arena.New(), Name: name, Start: start}
}

// State creates a state without a select. Set Select once its targets
// exist; targets may include the state itself.
func (b *Builder) State(name string, stmts ...ir.Node) *State {
	return &State{Base: b.Arena.New(), Name: name, Stmts: stmts}
}

func (b *Builder) Select(key ir.Node, cases ...ir.Node) *Select {
	return &Select{Base: b.Arena.New(), Key: key, Cases: cases}
}

// Case creates a transition; a nil value makes it the default case.
func (b *Builder) Case(value ir.Node, target *State) *Case {
	return &Case{Base: b.Arena.New(), Value: value, Target: target}
}

// Eval applies a binary operator to two constants. Comparisons yield 1 or
// 0. Division and remainder by zero report [errors.ErrCodeDivByZero];
// unknown operators [errors.ErrCodeInvalidInput].
func Eval(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return 0, errors.New(errors.ErrCodeDivByZero, "%d %s 0", l, op)
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil
	case "<":
		return boolInt(l < r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">":
		return boolInt(l > r), nil
	case ">=":
		return boolInt(l >= r), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown operator %q", op)
}

// IsOperator reports whether Eval supports op.
func IsOperator(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

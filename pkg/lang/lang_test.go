package lang

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

func TestEval(t *testing.T) {
	tests := []struct {
		op      string
		l, r    int64
		want    int64
		wantErr errors.Code
	}{
		{"+", 2, 3, 5, ""},
		{"-", 2, 3, -1, ""},
		{"*", 4, 3, 12, ""},
		{"/", 7, 2, 3, ""},
		{"%", 7, 2, 1, ""},
		{"/", 1, 0, 0, errors.ErrCodeDivByZero},
		{"%", 1, 0, 0, errors.ErrCodeDivByZero},
		{"==", 2, 2, 1, ""},
		{"!=", 2, 2, 0, ""},
		{"<", 1, 2, 1, ""},
		{"<=", 2, 2, 1, ""},
		{">", 1, 2, 0, ""},
		{">=", 3, 2, 1, ""},
		{"**", 1, 2, 0, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		got, err := Eval(tt.op, tt.l, tt.r)
		if tt.wantErr != "" {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Eval(%q, %d, %d) error = %v, want %s", tt.op, tt.l, tt.r, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Eval(%q, %d, %d) = %d, %v, want %d", tt.op, tt.l, tt.r, got, err, tt.want)
		}
	}
}

func TestKindTraits(t *testing.T) {
	tests := []struct {
		kind  ir.Kind
		trait ir.Trait
		want  bool
	}{
		{KindState, ir.TraitGraphRegion, true},
		{KindCase, ir.TraitGraphRegion, true},
		{KindSelect, ir.TraitGraphRegion, false},
		{KindConst, ir.TraitExpr, true},
		{KindBlock, ir.TraitSeq, true},
		{KindAssign, ir.TraitStmt, true},
	}
	for _, tt := range tests {
		if got := tt.kind.Is(tt.trait); got != tt.want {
			t.Errorf("%s.Is(%v) = %v, want %v", tt.kind, tt.trait, got, tt.want)
		}
	}
}

func TestChildGroups(t *testing.T) {
	b := NewBuilder("test")
	tests := []struct {
		name   string
		node   ir.Node
		orders []ir.Order
		slots  int
	}{
		{"if", b.If(b.Ref("c"), b.Block(), nil), []ir.Order{ir.Sequential, ir.Exclusive}, 3},
		{"select", b.Select(b.Ref("k"), b.Case(nil, b.State("s"))), []ir.Order{ir.Sequential, ir.Exclusive}, 2},
		{"state without select", b.State("s", b.Nop()), []ir.Order{ir.Sequential, ir.Sequential}, 2},
		{"parser without start", b.Parser("p", nil), []ir.Order{ir.Sequential}, 1},
		{"const", b.Const(1), nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ir.ChildrenOf(tt.node)
			var orders []ir.Order
			for _, g := range c.Groups() {
				orders = append(orders, g.Order)
			}
			if len(orders) != len(tt.orders) {
				t.Fatalf("groups = %v, want %v", orders, tt.orders)
			}
			for i := range orders {
				if orders[i] != tt.orders[i] {
					t.Errorf("group %d order = %s, want %s", i, orders[i], tt.orders[i])
				}
			}
			if c.Len() != tt.slots {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.slots)
			}
		})
	}

	// A missing select and start are nil slots, not typed nil pointers.
	for _, n := range []ir.Node{b.State("s"), b.Parser("p", nil)} {
		for _, s := range ir.ChildrenOf(n).Slots() {
			if s.Name != "stmts" && s.Node != nil {
				t.Errorf("%s slot %s = %v, want nil", ir.Dbp(n), s.Name, s.Node)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBuilder("test")
	blk := b.Block(b.Nop(), b.Nop())
	cp := blk.Clone().(*Block)
	cp.Stmts[0] = b.Const(1)

	if _, ok := blk.Stmts[0].(*Nop); !ok {
		t.Error("Clone() shares the statement slice")
	}
	if cp.Origin() != blk.ID() || !ir.IsClone(cp) {
		t.Errorf("clone origin = %d, want %d", cp.Origin(), blk.ID())
	}
}

func TestFormatParserLoop(t *testing.T) {
	b := NewBuilder("test")
	start := b.State("start")
	start.Select = b.Select(b.Ref("k"), b.Case(b.Const(1), start))
	p := b.Program("main", b.Parser("p", start))

	want := "Program#7 name=main\n" +
		"  body: Parser#6 name=p\n" +
		"    start: State#1 name=start\n" +
		"      select: Select#5\n" +
		"        key: Ref#2 name=k\n" +
		"        cases: Case#4\n" +
		"          value: Const#3 value=1\n" +
		"          target: ^State#1\n"
	if got := ir.Format(p); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestFactory(t *testing.T) {
	a := ir.NewArena("doc")
	src := ir.SourceInfo{File: "p.ir", Line: 3}
	tests := []struct {
		kind    string
		attrs   map[string]any
		check   func(ir.Node) bool
		wantErr errors.Code
	}{
		{"Program", map[string]any{"name": "main"}, func(n ir.Node) bool { return n.(*Program).Name == "main" }, ""},
		{"Program", nil, func(n ir.Node) bool { return n.(*Program).Name == "" }, ""},
		{"Const", map[string]any{"value": float64(42)}, func(n ir.Node) bool { return n.(*Const).Value == 42 }, ""},
		{"Const", map[string]any{"value": 7}, func(n ir.Node) bool { return n.(*Const).Value == 7 }, ""},
		{"Const", map[string]any{"value": json.Number("-3")}, func(n ir.Node) bool { return n.(*Const).Value == -3 }, ""},
		{"Const", map[string]any{"value": 1.5}, nil, errors.ErrCodeInvalidDocument},
		{"Const", map[string]any{}, nil, errors.ErrCodeInvalidDocument},
		{"Ref", map[string]any{"name": "x"}, func(n ir.Node) bool { return n.(*Ref).Name == "x" }, ""},
		{"Ref", map[string]any{"name": "1x"}, nil, errors.ErrCodeInvalidDocument},
		{"Assign", map[string]any{"name": 3}, nil, errors.ErrCodeInvalidDocument},
		{"Binary", map[string]any{"op": "+"}, func(n ir.Node) bool { return n.(*Binary).Op == "+" }, ""},
		{"Binary", map[string]any{"op": "**"}, nil, errors.ErrCodeInvalidDocument},
		{"State", map[string]any{"name": "start"}, func(n ir.Node) bool { return n.(*State).Name == "start" }, ""},
		{"Case", nil, func(n ir.Node) bool { return n.Kind() == KindCase }, ""},
		{"Widget", nil, nil, errors.ErrCodeInvalidKind},
	}
	for _, tt := range tests {
		n, err := Factory{}.New(a, tt.kind, src, tt.attrs)
		if tt.wantErr != "" {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New(%s, %v) error = %v, want %s", tt.kind, tt.attrs, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%s, %v) error = %v", tt.kind, tt.attrs, err)
			continue
		}
		if !tt.check(n) {
			t.Errorf("New(%s, %v) = %s", tt.kind, tt.attrs, ir.Format(n))
		}
		if n.Source() != src {
			t.Errorf("New(%s).Source() = %v, want %v", tt.kind, n.Source(), src)
		}
	}
}

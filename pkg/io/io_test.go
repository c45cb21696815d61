package io_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/io"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
)

// sample has a shared constant and a parser loop.
func sample() *lang.Program {
	b := lang.NewBuilder("sample.ir")
	one := b.Const(1)
	start := b.State("start", b.Assign("x", one))
	start.Select = b.Select(b.Ref("x"), b.Case(one, start), b.Case(nil, b.State("accept")))
	return b.Program("main",
		b.Assign("v", one),
		b.If(b.Ref("v"), b.Block(), nil),
		b.Parser("p", start),
	)
}

func TestFromTree(t *testing.T) {
	root := sample()
	doc, err := io.FromTree(root)
	if err != nil {
		t.Fatalf("FromTree() error = %v", err)
	}
	if doc.Name != "sample.ir" || doc.Root != "n1" {
		t.Errorf("Name, Root = %q, %q", doc.Name, doc.Root)
	}

	// Program, Assign, Const, If, Ref, Block, Parser, State start, Assign,
	// Select, Ref, Case, Case, State accept.
	if len(doc.Nodes) != 14 {
		t.Fatalf("len(Nodes) = %d, want 14", len(doc.Nodes))
	}
	prog := doc.Nodes[0]
	want := []io.Field{{Name: "body", Seq: true, Refs: []string{"n2", "n4", "n7"}}}
	if diff := cmp.Diff(want, prog.Children); diff != "" {
		t.Errorf("Program children (-want +got):\n%s", diff)
	}
	ifNode := doc.Nodes[3]
	if ifNode.Kind != "If" || ifNode.Children[2].Refs[0] != "" {
		t.Errorf("If = %+v, want an empty else", ifNode)
	}
	block := doc.Nodes[5]
	if block.Kind != "Block" || len(block.Children) != 1 || len(block.Children[0].Refs) != 0 {
		t.Errorf("Block = %+v, want one empty sequence", block)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []io.Format{io.FormatJSON, io.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			root := sample()
			doc, err := io.FromTree(root)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := io.Write(doc, &buf, format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			back, err := io.Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			got, err := io.Build(back, lang.Factory{})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			if !ir.Equiv(root, got) {
				t.Errorf("round trip changed the tree:\n%s\nwant:\n%s", ir.Format(got), ir.Format(root))
			}
			prog := ir.MustAs[*lang.Program](got)
			shared := prog.Body[0].(*lang.Assign).Value
			parser := prog.Body[2].(*lang.Parser)
			if parser.Start.Select.Cases[0].(*lang.Case).Value != shared {
				t.Error("shared constant was duplicated")
			}
			if parser.Start.Select.Cases[0].(*lang.Case).Target != parser.Start {
				t.Error("parser loop was not restored")
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	constNode := io.Node{ID: "c", Kind: "Const", Attrs: map[string]any{"value": 1}}
	assign := func(ref string) io.Node {
		return io.Node{ID: "a", Kind: "Assign", Attrs: map[string]any{"name": "x"},
			Children: []io.Field{{Name: "value", Refs: []string{ref}}}}
	}
	tests := []struct {
		name     string
		doc      *io.Document
		wantCode errors.Code
		wantMsg  string
	}{
		{"empty", &io.Document{}, errors.ErrCodeInvalidDocument, "no nodes"},
		{
			"unknown kind",
			&io.Document{Root: "a", Nodes: []io.Node{{ID: "a", Kind: "Loop"}}},
			errors.ErrCodeInvalidKind, "Loop",
		},
		{
			"duplicate id",
			&io.Document{Root: "c", Nodes: []io.Node{constNode, constNode}},
			errors.ErrCodeInvalidDocument, "duplicate",
		},
		{
			"dangling reference",
			&io.Document{Root: "a", Nodes: []io.Node{assign("zz")}},
			errors.ErrCodeInvalidDocument, `unknown node "zz"`,
		},
		{
			"missing required child",
			&io.Document{Root: "a", Nodes: []io.Node{assign("")}},
			errors.ErrCodeInvalidDocument, "cannot link",
		},
		{
			"wrong field",
			&io.Document{Root: "a", Nodes: []io.Node{{ID: "a", Kind: "Assign", Attrs: map[string]any{"name": "x"},
				Children: []io.Field{{Name: "value", Seq: true, Refs: []string{}}}}}},
			errors.ErrCodeInvalidDocument, "value[]",
		},
		{
			"wrong child type",
			&io.Document{Root: "p", Nodes: []io.Node{
				{ID: "p", Kind: "Parser", Attrs: map[string]any{"name": "p"},
					Children: []io.Field{{Name: "start", Refs: []string{"c"}}}},
				constNode,
			}},
			errors.ErrCodeInvalidDocument, "cannot link",
		},
		{
			"bad attribute",
			&io.Document{Root: "a", Nodes: []io.Node{{ID: "a", Kind: "Ref", Attrs: map[string]any{"name": "1x"}}}},
			errors.ErrCodeInvalidDocument, "node a",
		},
		{
			"unknown root",
			&io.Document{Root: "q", Nodes: []io.Node{constNode}},
			errors.ErrCodeInvalidDocument, "unknown root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := io.Build(tt.doc, lang.Factory{})
			if errors.GetCode(err) != tt.wantCode {
				t.Fatalf("Build() error = %v, want %s", err, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Build() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFromTreeRejectsLoopsOutsideGraphRegions(t *testing.T) {
	b := lang.NewBuilder("test")
	blk := b.Block()
	blk.Stmts = []ir.Node{blk}

	_, err := io.FromTree(b.Program("main", blk))
	if !errors.Is(err, errors.ErrCodeLoop) {
		t.Errorf("FromTree() error = %v, want %s", err, errors.ErrCodeLoop)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	root := sample()

	for _, name := range []string{"prog.json", "prog.yml", "prog.yaml"} {
		path := filepath.Join(dir, name)
		if err := io.ExportFile(root, path); err != nil {
			t.Fatalf("ExportFile(%s) error = %v", name, err)
		}
		got, err := io.ImportFile(path, lang.Factory{})
		if err != nil {
			t.Fatalf("ImportFile(%s) error = %v", name, err)
		}
		if !ir.Equiv(root, got) {
			t.Errorf("%s: round trip changed the tree", name)
		}
	}

	if err := io.ExportFile(root, filepath.Join(dir, "prog.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ExportFile(.txt) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if _, err := io.ImportFile(filepath.Join(dir, "missing.json"), lang.Factory{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportFile(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nodes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ImportFile(bad, lang.Factory{}); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("ImportFile(bad) error = %v, want %s", err, errors.ErrCodeInvalidDocument)
	}
}

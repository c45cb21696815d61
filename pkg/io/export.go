package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Document is the serialized form of a tree.
type Document struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Root  string `json:"root" yaml:"root"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Node is one serialized node.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind" yaml:"kind"`
	Source   *Source        `json:"source,omitempty" yaml:"source,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []Field        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Source is a serialized source location.
type Source struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Field is one child field. Refs holds one entry for a single field, ""
// meaning no child.
type Field struct {
	Name string   `json:"name" yaml:"name"`
	Seq  bool     `json:"seq,omitempty" yaml:"seq,omitempty"`
	Refs []string `json:"refs" yaml:"refs"`
}

// collector lists the distinct nodes of a tree in preorder.
type collector struct {
	visit.InspectorBase
	nodes []ir.Node
}

func (c *collector) Preorder(_ *visit.Visitor, n ir.Node) bool {
	c.nodes = append(c.nodes, n)
	return true
}

// LoopRevisit accepts back-edges into graph regions only.
func (c *collector) LoopRevisit(v *visit.Visitor, n ir.Node) {
	errors.Check(n.Kind().Is(ir.TraitGraphRegion), errors.ErrCodeLoop,
		"%s: loop through %s outside a graph region", v.Name(), ir.Dbp(n))
}

// FromTree serializes the tree rooted at root. Every distinct node appears
// once; its reference is its preorder position.
func FromTree(root ir.Node) (doc *Document, err error) {
	defer errors.Recover(&err)
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot serialize a nil tree")
	}

	c := &collector{}
	visit.NewInspector(c, visit.WithName("export")).Apply(root)

	refs := make(map[ir.Node]string, len(c.nodes))
	for i, n := range c.nodes {
		refs[n] = fmt.Sprintf("n%d", i+1)
	}
	doc = &Document{
		Name:  ir.BaseOf(root).Arena().Name(),
		Root:  refs[root],
		Nodes: make([]Node, len(c.nodes)),
	}
	for i, n := range c.nodes {
		doc.Nodes[i] = encodeNode(n, refs)
	}
	return doc, nil
}

func encodeNode(n ir.Node, refs map[ir.Node]string) Node {
	out := Node{ID: refs[n], Kind: n.Kind().String()}
	if src := n.Source(); src.IsValid() {
		out.Source = &Source{File: src.File, Line: src.Line, Column: src.Column}
	}
	if a, ok := n.(ir.Attributed); ok {
		out.Attrs = a.Attrs()
	}
	for _, f := range ir.ChildrenOf(n).Fields() {
		fd := Field{Name: f.Name, Seq: f.Seq, Refs: make([]string, len(f.Nodes))}
		for i, k := range f.Nodes {
			if k != nil {
				fd.Refs[i] = refs[k]
			}
		}
		out.Children = append(out.Children, fd)
	}
	return out
}

// Write encodes doc to w.
func Write(doc *Document, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatYAML:
		return WriteYAML(doc, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes doc as YAML.
func WriteYAML(doc *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportFile writes the tree rooted at root to path, in the format named
// by its extension.
func ExportFile(root ir.Node, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	doc, err := FromTree(root)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f, format)
}

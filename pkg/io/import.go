package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Factory creates childless nodes of the named kind. lang.Factory
// implements it for the sample language.
type Factory interface {
	New(a *ir.Arena, kind string, src ir.SourceInfo, attrs map[string]any) (ir.Node, error)
}

// Read decodes a document from r.
func Read(r io.Reader, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// ReadJSON decodes a JSON document from r. Numbers are kept exact.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	return &doc, nil
}

// ReadYAML decodes a YAML document from r. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	return &doc, nil
}

// Build creates the tree described by doc. All nodes are created first and
// then linked, so references may point forwards and backwards.
//
// Build returns an error if:
//   - A node has an invalid or duplicate ID, or the root is unknown
//   - The factory rejects a kind or its attributes
//   - A reference names an unknown node
//   - A node's child fields do not match its kind in name, shape or type
//
// Errors are wrapped with the ID of the node that caused them.
func Build(doc *Document, f Factory) (ir.Node, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no nodes")
	}
	name := doc.Name
	if name == "" {
		name = "document"
	}
	a := ir.NewArena(name)

	nodes := make(map[string]ir.Node, len(doc.Nodes))
	for _, dn := range doc.Nodes {
		if err := errors.ValidateNodeRef(dn.ID); err != nil {
			return nil, err
		}
		if _, dup := nodes[dn.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %q", dn.ID)
		}
		n, err := newNode(a, f, dn)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", dn.ID, err)
		}
		nodes[dn.ID] = n
	}
	for _, dn := range doc.Nodes {
		if err := link(nodes[dn.ID], dn, nodes); err != nil {
			return nil, fmt.Errorf("node %s: %w", dn.ID, err)
		}
	}

	root, ok := nodes[doc.Root]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown root %q", doc.Root)
	}
	return root, nil
}

func newNode(a *ir.Arena, f Factory, dn Node) (ir.Node, error) {
	var src ir.SourceInfo
	if dn.Source != nil {
		src = ir.SourceInfo{File: dn.Source.File, Line: dn.Source.Line, Column: dn.Source.Column}
	}
	if dn.Kind == ir.KindList.String() {
		return &ir.List{Base: a.NewAt(src)}, nil
	}
	return f.New(a, dn.Kind, src, dn.Attrs)
}

// link fills the child fields of n from dn.
func link(n ir.Node, dn Node, nodes map[string]ir.Node) error {
	want := ir.ChildrenOf(n).Fields()
	if len(dn.Children) != len(want) {
		return errors.New(errors.ErrCodeInvalidDocument, "%s has %d child fields, got %d",
			n.Kind(), len(want), len(dn.Children))
	}

	r := ir.NewReplacements()
	for i, fd := range dn.Children {
		w := want[i]
		if fd.Name != w.Name || fd.Seq != w.Seq {
			return errors.New(errors.ErrCodeInvalidDocument, "child field %d is %s, want %s",
				i, fieldShape(fd.Name, fd.Seq), fieldShape(w.Name, w.Seq))
		}
		kids := make([]ir.Node, len(fd.Refs))
		for j, ref := range fd.Refs {
			if ref == "" {
				if fd.Seq {
					return errors.New(errors.ErrCodeInvalidDocument, "empty reference in sequence %q", fd.Name)
				}
				continue
			}
			k, ok := nodes[ref]
			if !ok {
				return errors.New(errors.ErrCodeInvalidDocument, "field %q: unknown node %q", fd.Name, ref)
			}
			kids[j] = k
		}
		if fd.Seq {
			r.PutSeq(fd.Name, kids...)
			continue
		}
		if len(kids) != 1 {
			return errors.New(errors.ErrCodeInvalidDocument, "field %q: want 1 reference, got %d", fd.Name, len(kids))
		}
		r.Put(fd.Name, kids[0])
	}

	if err := setChildren(n, r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "cannot link children of %s", n.Kind())
	}
	return nil
}

// setChildren turns the faults raised by typed child accessors into
// errors: in a document they are input errors.
func setChildren(n ir.Node, r *ir.Replacements) (err error) {
	defer errors.Recover(&err)
	n.SetChildren(r)
	r.Done()
	return nil
}

func fieldShape(name string, seq bool) string {
	if seq {
		return name + "[]"
	}
	return name
}

// ImportFile reads the document at path, in the format named by its
// extension, and builds its tree with f.
func ImportFile(path string, f Factory) (ir.Node, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Build(doc, f)
}

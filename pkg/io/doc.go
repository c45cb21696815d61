// Package io provides JSON and YAML import and export for IR trees.
//
// # Overview
//
// This package serializes any tree of [ir.Node] values into a flat document
// and builds trees back from it. It knows nothing about concrete node
// types: it reads nodes through their generic child enumeration and their
// [ir.Attributed] attributes, and creates them through a [Factory]
// supplied by the IR package (for the sample language, lang.Factory).
//
// The format is designed for:
//
//   - Writing test inputs by hand
//   - Saving the result of a pass pipeline and feeding it to another run
//   - Round-trip preservation: shared nodes stay shared and parser loops
//     stay loops
//
// # Document Format
//
// A document lists every distinct node once, in preorder, and names the
// root:
//
//	{
//	  "name": "main.ir",
//	  "root": "n1",
//	  "nodes": [
//	    {"id": "n1", "kind": "Program", "attrs": {"name": "main"},
//	     "children": [{"name": "body", "seq": true, "refs": ["n2"]}]},
//	    {"id": "n2", "kind": "Assign", "attrs": {"name": "x"},
//	     "children": [{"name": "value", "refs": ["n3"]}]},
//	    {"id": "n3", "kind": "Const", "attrs": {"value": 1}}
//	  ]
//	}
//
// Each node lists its child fields in declaration order. Single fields
// hold exactly one reference, where "" stands for a missing child; sequence
// fields (seq: true) hold any number. A node referenced from several
// fields is shared, and a reference to a node that encloses it is a
// back-edge.
//
// # Import
//
// Use [ImportFile] to read a tree from a file path, or [Read] and [Build]
// to decode from any io.Reader:
//
//	root, err := io.ImportFile("prog.json", lang.Factory{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Building runs in two phases: every node is created childless, then the
// child fields are linked through SetChildren. Structural problems
// (unknown kinds, dangling references, fields of the wrong shape or type)
// are reported as ErrCodeInvalidDocument or ErrCodeInvalidKind errors
// naming the offending node.
//
// # Export
//
// Use [ExportFile] to write a tree to a file, or [FromTree] and [Write]
// to encode to any io.Writer. The file extension selects the format:
// .json, or .yaml and .yml.
//
// # Concurrency
//
// Trees are immutable once built, so exporting is safe to run concurrently
// with other readers of the same tree. Every [Build] allocates nodes from
// its own arena.
package io

// Package pkg provides the core libraries of irwalk, a traversal and
// rewriting engine for compiler intermediate representations.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Engine - the node contract ([ir]) and the visitors that walk it ([visit])
//  2. Language - a small statement language with parser state machines
//     ([lang]) and the passes that analyse and rewrite it ([lang/passes])
//  3. Plumbing - pass pipelines ([pipeline]), diagnostics ([diag]),
//     document import and export ([io]), diagrams ([render/nodelink]) and
//     hooks ([observability])
//
// # Architecture
//
// The typical data flow through irwalk:
//
//	JSON/YAML document
//	         ↓
//	    [io] package (build a tree through a node factory)
//	         ↓
//	    [pipeline] package (run passes, collect diagnostics)
//	         ↓
//	    [io] or [render/nodelink] (write the tree or draw it)
//
// # Quick Start
//
// Fold constants in a document and write it back:
//
//	root, err := io.ImportFile("prog.json", lang.Factory{})
//	if err != nil {
//	    return err
//	}
//	ps, _ := passes.ByNames([]string{"resolve", "constfold", "deadcode"})
//	res, err := pipeline.NewRunner(logger, pipeline.Options{}).Run(ctx, root, ps...)
//	if err != nil {
//	    return err
//	}
//	return io.ExportFile(res.Root, "out.json")
//
// # Visitors
//
// A pass is a type embedding one of the visitor bases and overriding the
// hooks it needs:
//
//   - Inspectors read the tree and never change it.
//   - Modifiers edit clones in place; unchanged clones are dropped, so
//     untouched subtrees keep their identity.
//   - Transforms return replacement nodes, may delete nodes by returning
//     nil and may splice an [ir.List] into a sequence.
//
// Inspectors that also implement [visit.Flow] can run as control-flow
// visitors: nodes reached along several edges are visited once, after
// all their predecessors, with the merged flow state.
//
// [ir]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/ir
// [visit]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/visit
// [lang]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/lang
// [lang/passes]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/lang/passes
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/pipeline
// [diag]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/diag
// [io]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/irwalk/pkg/observability
package pkg

// Package nodelink renders IR trees as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// every distinct node appears as a box and every child slot as an arrow
// labelled with the field name. Shared nodes are drawn once with several
// incoming arrows, which makes the DAG structure of a tree visible.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Or render in one step, choosing the format from a file extension:
//
//	format, err := nodelink.ParseFormat(filepath.Ext(path))
//	out, err := nodelink.Render(ctx, root, nodelink.Options{}, format)
//
// [Render] reports to the render hooks registered in pkg/observability.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include attributes and source locations
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Graph-region nodes (parser states and cases) are filled grey,
// and back-edges into them are dashed and excluded from ranking so loops
// do not distort the layout.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink

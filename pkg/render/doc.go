// Package render provides visualization rendering for IR trees.
//
// The [nodelink] subpackage renders trees as Graphviz node-link diagrams in
// DOT, SVG or PNG format:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/irwalk/pkg/render/nodelink
package render

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/observability"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes attributes and source locations in node labels.
	// When false, only Kind#id is shown.
	Detailed bool
}

// Format is an output format of [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a name or file extension to a format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	case "gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (want dot, svg or png)", s)
}

type edge struct {
	from, to ir.Node
	label    string
	back     bool
}

// graph collects the distinct nodes of a tree and one edge per child slot.
type graph struct {
	visit.InspectorBase
	nodes []ir.Node
	edges []edge
}

func (g *graph) Preorder(v *visit.Visitor, n ir.Node) bool {
	g.nodes = append(g.nodes, n)
	g.addEdge(v, n, false)
	return true
}

func (g *graph) Revisit(v *visit.Visitor, n ir.Node) { g.addEdge(v, n, false) }

func (g *graph) LoopRevisit(v *visit.Visitor, n ir.Node) { g.addEdge(v, n, true) }

func (g *graph) addEdge(v *visit.Visitor, n ir.Node, back bool) {
	p := v.Parent()
	if p == nil {
		return
	}
	g.edges = append(g.edges, edge{from: p.Node, to: n, label: v.ChildName(), back: back})
}

// ToDOT converts the tree rooted at root to Graphviz DOT format. Every
// distinct node becomes one vertex, so shared nodes have several incoming
// edges. Edges are labelled with the child field name; back-edges into
// graph regions are dashed and do not constrain the layout.
//
// The resulting DOT string can be rendered using [RenderSVG] or [Render].
func ToDOT(root ir.Node, opts Options) string {
	dot, _ := toDOT(root, opts)
	return dot
}

func toDOT(root ir.Node, opts Options) (string, int) {
	var g graph
	if root != nil {
		visit.NewInspector(&g, visit.WithName("dot")).Apply(root)
	}
	ids := make(map[ir.Node]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[n] = "n" + strconv.Itoa(i+1)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %s [%s];\n", ids[n], strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		attrs := []string{fmt.Sprintf("label=%q", e.label)}
		if e.back {
			attrs = append(attrs, "style=dashed", "constraint=false")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", ids[e.from], ids[e.to], strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), len(g.nodes)
}

func fmtLabel(n ir.Node, detailed bool) string {
	label := ir.Dbp(n)
	if !detailed {
		return label
	}

	var parts []string
	if a, ok := n.(ir.Attributed); ok {
		attrs := a.Attrs()
		for _, k := range slices.Sorted(maps.Keys(attrs)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, attrs[k]))
		}
	}
	if src := n.Source(); src.IsValid() {
		parts = append(parts, "at: "+src.String())
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n ir.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Kind().Is(ir.TraitGraphRegion) {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// Render draws the tree rooted at root in the given format.
func Render(ctx context.Context, root ir.Node, opts Options, format Format) (out []byte, err error) {
	dot, nodes := toDOT(root, opts)
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(format), nodes)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, string(format), time.Since(start), err) }()

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return renderGraphviz(ctx, dot, graphviz.PNG)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag by one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Attributed is implemented by nodes that expose their non-child fields
// for dumps and serializers.
type Attributed interface {
	Attrs() map[string]any
}

// Dbp returns the short debug name of a node: Kind#id.
func Dbp(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", n.Kind(), n.ID())
}

// Format renders the tree rooted at n as an indented outline. A node
// reachable more than once is expanded at its first occurrence and shown
// as ^Kind#id afterwards, so shared subtrees and back-edges print finitely.
func Format(n Node) string {
	var sb strings.Builder
	seen := map[Node]bool{}
	var walk func(name string, n Node, depth int)
	walk = func(name string, n Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		if name != "" {
			sb.WriteString(name)
			sb.WriteString(": ")
		}
		if n == nil {
			sb.WriteString("<nil>\n")
			return
		}
		if seen[n] {
			sb.WriteString("^" + Dbp(n) + "\n")
			return
		}
		seen[n] = true
		sb.WriteString(Dbp(n))
		if a, ok := n.(Attributed); ok {
			sb.WriteString(FormatAttrs(a.Attrs()))
		}
		if src := n.Source(); src.IsValid() {
			sb.WriteString(" @" + src.String())
		}
		sb.WriteByte('\n')
		for _, s := range ChildrenOf(n).Slots() {
			walk(s.Name, s.Node, depth+1)
		}
	}
	walk("", n, 0)
	return sb.String()
}

// FormatAttrs renders attributes as " k=v" pairs sorted by key.
func FormatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, attrs[k])
	}
	return sb.String()
}

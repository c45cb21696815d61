package passes

import (
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Count tallies the nodes of a tree. Shared nodes are counted once, with
// every further encounter counted as a revisit; parser back-edges are
// counted separately and not followed.
type Count struct {
	visit.InspectorBase
	Nodes     int
	Revisits  int
	BackEdges int
	PerKind   map[ir.Kind]int
}

// NewCount returns an empty Count.
func NewCount() *Count {
	return &Count{PerKind: make(map[ir.Kind]int)}
}

func (c *Count) Preorder(_ *visit.Visitor, n ir.Node) bool {
	c.Nodes++
	c.PerKind[n.Kind()]++
	return true
}

func (c *Count) Revisit(*visit.Visitor, ir.Node) { c.Revisits++ }

func (c *Count) LoopRevisit(*visit.Visitor, ir.Node) { c.BackEdges++ }

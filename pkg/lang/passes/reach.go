package passes

import (
	"sort"

	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Reach computes, for every parser state, the states that can run before
// it on some path from the start state. Run it with visit.NewControlFlow:
// a state with several incoming transitions is visited once, after all of
// them, with the union of what reaches it. Back-edges are not followed.
type Reach struct {
	visit.InspectorBase

	// Before maps "parser.state" to the sorted names of the states that
	// may precede it. It is shared by all flow copies of the pass.
	Before map[string][]string

	seen map[string]bool
}

// NewReach returns an empty Reach.
func NewReach() *Reach {
	return &Reach{Before: make(map[string][]string), seen: make(map[string]bool)}
}

func (r *Reach) Preorder(v *visit.Visitor, n ir.Node) bool {
	switch x := n.(type) {
	case *lang.Parser:
		r.seen = make(map[string]bool)
	case *lang.State:
		parser := "?"
		if p, ok := visit.Find[*lang.Parser](v); ok {
			parser = p.Name
		}
		r.Before[parser+"."+x.Name] = sortedKeys(r.seen)
		r.seen[x.Name] = true
	}
	return true
}

// LoopRevisit ignores back-edges outside control-flow traversals.
func (r *Reach) LoopRevisit(*visit.Visitor, ir.Node) {}

func (r *Reach) FlowClone() visit.Flow {
	return &Reach{Before: r.Before, seen: cloneSet(r.seen)}
}

func (r *Reach) FlowMerge(other visit.Flow) {
	for k := range other.(*Reach).seen {
		r.seen[k] = true
	}
}

func (r *Reach) FlowCopy(other visit.Flow) {
	r.seen = cloneSet(other.(*Reach).seen)
}

func sortedKeys(s map[string]bool) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

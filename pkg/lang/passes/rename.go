package passes

import (
	"strings"

	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// Rename prefixes every variable name. Names already carrying the prefix
// are left alone, so running Rename twice changes nothing.
type Rename struct {
	visit.ModifierBase
	Prefix  string
	Renamed int
}

// NewRename returns a Rename adding prefix.
func NewRename(prefix string) *Rename { return &Rename{Prefix: prefix} }

func (p *Rename) Preorder(_ *visit.Visitor, n ir.Node) bool {
	return n.Kind() != lang.KindParser
}

func (p *Rename) Postorder(_ *visit.Visitor, n ir.Node) {
	switch x := n.(type) {
	case *lang.Assign:
		x.Name = p.prefixed(x.Name)
	case *lang.Ref:
		x.Name = p.prefixed(x.Name)
	}
}

func (p *Rename) prefixed(name string) string {
	if p.Prefix == "" || strings.HasPrefix(name, p.Prefix) {
		return name
	}
	p.Renamed++
	return p.Prefix + name
}

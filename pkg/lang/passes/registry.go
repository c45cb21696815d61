// Package passes holds the analyses and rewrites of the lang IR, ready to
// run in a pipeline.
//
// Each pass is a visitor type that can be applied on its own:
//
//	fold := passes.NewConstFold(sink)
//	root = visit.NewTransform(fold).Apply(root)
//
// or looked up by name and handed to a [pipeline.Runner]:
//
//	p, _ := passes.Lookup("constfold")
//	res, err := runner.Run(ctx, root, p)
package passes

import (
	"sort"
	"strings"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/pipeline"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// DefaultRenamePrefix is the prefix used by the registered rename pass.
const DefaultRenamePrefix = "v_"

var registry = map[string]pipeline.Pass{
	"count": {
		Name:        "count",
		Description: "Count nodes per kind and log the totals",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			c := NewCount()
			visit.NewInspector(c, env.VisitOptions()...).Apply(root)
			env.Logger.Info("node count", "nodes", c.Nodes, "revisits", c.Revisits, "back_edges", c.BackEdges)
			return root
		},
	},
	"resolve": {
		Name:        "resolve",
		Description: "Report variables read before any assignment",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			visit.NewInspector(NewResolve(env.Sink), env.VisitOptions()...).Apply(root)
			return root
		},
	},
	"constfold": {
		Name:        "constfold",
		Description: "Fold binary operations over constants",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			return visit.NewTransform(NewConstFold(env.Sink), env.VisitOptions()...).Apply(root)
		},
	},
	"deadcode": {
		Name:        "deadcode",
		Description: "Remove no-ops and branches on constant conditions",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			return visit.NewTransform(&DeadCode{}, env.VisitOptions()...).Apply(root)
		},
	},
	"rename": {
		Name:        "rename",
		Description: "Prefix variable names with " + DefaultRenamePrefix,
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			return visit.NewModifier(NewRename(DefaultRenamePrefix), env.VisitOptions()...).Apply(root)
		},
	},
	"reach": {
		Name:        "reach",
		Description: "Compute the parser states that may run before each state",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			r := NewReach()
			visit.NewControlFlow(r, env.VisitOptions()...).Apply(root)
			for _, state := range sortedStates(r.Before) {
				env.Logger.Info("reach", "state", state, "before", r.Before[state])
			}
			return root
		},
	},
	"assigned": {
		Name:        "assigned",
		Description: "Warn about variables assigned on some paths only",
		Run: func(env *pipeline.Env, root ir.Node) ir.Node {
			a := NewAssigned(env.Sink)
			visit.NewControlFlow(a, env.VisitOptions()...).Apply(root)
			env.Logger.Debug("assigned", "may", a.May, "must", a.Must)
			return root
		},
	},
}

// Lookup returns the registered pass called name.
func Lookup(name string) (pipeline.Pass, bool) {
	p, ok := registry[name]
	return p, ok
}

// ByNames looks up every name in order. Unknown names are an
// [errors.ErrCodeInvalidPass] error listing what is available.
func ByNames(names []string) ([]pipeline.Pass, error) {
	out := make([]pipeline.Pass, 0, len(names))
	for _, name := range names {
		p, ok := registry[strings.TrimSpace(name)]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPass, "unknown pass %q (available: %s)",
				name, strings.Join(Names(), ", "))
		}
		out = append(out, p)
	}
	return out, nil
}

// Names returns the names of all registered passes, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered pass in name order.
func All() []pipeline.Pass {
	out := make([]pipeline.Pass, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

func sortedStates(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

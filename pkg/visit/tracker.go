package visit

import (
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// State is the visit status of a node within one traversal.
type State uint8

const (
	Unvisited State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case InProgress:
		return "in-progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

type memo struct {
	inProgress bool
	visitOnce  bool
	result     ir.Node
}

// tracker is the per-traversal memo table keyed by node identity.
type tracker struct {
	entries map[ir.Node]*memo
}

func newTracker() *tracker {
	return &tracker{entries: make(map[ir.Node]*memo)}
}

func (t *tracker) state(n ir.Node) State {
	e, ok := t.entries[n]
	switch {
	case !ok:
		return Unvisited
	case e.inProgress:
		return InProgress
	default:
		return Finished
	}
}

func (t *tracker) busy(n ir.Node) bool {
	e, ok := t.entries[n]
	return ok && e.inProgress
}

// done reports whether n finished and must not be visited again.
func (t *tracker) done(n ir.Node) bool {
	e, ok := t.entries[n]
	return ok && !e.inProgress && e.visitOnce
}

func (t *tracker) result(n ir.Node) ir.Node {
	e, ok := t.entries[n]
	errors.Check(ok && !e.inProgress, errors.ErrCodeMemoCorrupt, "no finished result for %s", ir.Dbp(n))
	return e.result
}

func (t *tracker) start(n ir.Node, visitOnce bool) {
	if e, ok := t.entries[n]; ok {
		errors.Check(!e.inProgress, errors.ErrCodeMemoCorrupt, "%s started twice", ir.Dbp(n))
		e.inProgress, e.visitOnce, e.result = true, visitOnce, nil
		return
	}
	t.entries[n] = &memo{inProgress: true, visitOnce: visitOnce}
}

// finish records final as the result for orig and reports the node the
// caller should hand back: orig itself when final is an unchanged copy.
// A new final node is recorded as finished with itself as result so it is
// not visited again in this traversal.
func (t *tracker) finish(orig, final ir.Node) ir.Node {
	e, ok := t.entries[orig]
	errors.Check(ok && e.inProgress, errors.ErrCodeMemoCorrupt, "finish of %s which is not in progress", ir.Dbp(orig))
	e.inProgress = false
	if final != nil && final != orig && ir.Same(final, orig) {
		final = orig
	}
	e.result = final
	if final != nil && final != orig {
		if fe, ok := t.entries[final]; !ok {
			t.entries[final] = &memo{visitOnce: e.visitOnce, result: final}
		} else if !fe.inProgress {
			fe.result = final
		}
	}
	return final
}

func (t *tracker) setVisitOnce(n ir.Node, once bool) {
	e, ok := t.entries[n]
	errors.Check(ok && e.inProgress, errors.ErrCodeMemoCorrupt, "visit-once change on %s which is not in progress", ir.Dbp(n))
	e.visitOnce = once
}

// forget drops every finished entry so that nodes already visited are
// visited again. Entries in progress are kept.
func (t *tracker) forget() {
	for n, e := range t.entries {
		if !e.inProgress {
			delete(t.entries, n)
		}
	}
}

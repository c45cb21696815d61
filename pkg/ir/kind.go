package ir

import (
	"fmt"
	"sync"
)

// Kind is the type tag of a node. Kinds are small dense integers handed out
// by [RegisterKind], so dispatch tables indexed by Kind are plain slices.
type Kind uint16

// KindInvalid is the zero Kind. No node reports it.
const KindInvalid Kind = 0

// Trait is a capability shared by several kinds. Traits replace deep node
// class hierarchies: instead of asking "is this a subclass of Expression"
// callers ask whether the node's kind carries [TraitExpr].
type Trait uint32

const (
	// TraitExpr marks expression kinds.
	TraitExpr Trait = 1 << iota
	// TraitStmt marks statement kinds.
	TraitStmt
	// TraitSeq marks homogeneous sibling sequences that Transforms may splice into.
	TraitSeq
	// TraitGraphRegion marks kinds that may legitimately form cycles and join
	// points. Control-flow visitors treat re-entry into an in-progress node of
	// such a kind as a back-edge instead of a defect.
	TraitGraphRegion
)

// Has reports whether all bits of o are set in t.
func (t Trait) Has(o Trait) bool { return t&o == o }

type kindInfo struct {
	name   string
	traits Trait
}

var (
	kindsMu sync.RWMutex
	kinds   = []kindInfo{{name: "<invalid>"}}
	byName  = map[string]Kind{}
)

// RegisterKind adds a node kind to the closed registry and returns its tag.
// It is meant to be called from package-level var declarations of the
// package that defines the node type. Registering the same name twice
// panics, as does exhausting the Kind space.
func RegisterKind(name string, traits Trait) Kind {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	if name == "" {
		panic("ir: empty kind name")
	}
	if _, dup := byName[name]; dup {
		panic(fmt.Sprintf("ir: kind %q registered twice", name))
	}
	if len(kinds) > int(^Kind(0)) {
		panic("ir: too many kinds")
	}
	k := Kind(len(kinds))
	kinds = append(kinds, kindInfo{name: name, traits: traits})
	byName[name] = k
	return k
}

// KindByName looks up a registered kind.
func KindByName(name string) (Kind, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	k, ok := byName[name]
	return k, ok
}

// NumKinds returns one more than the highest registered Kind, i.e. the
// length a kind-indexed table needs.
func NumKinds() int {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return len(kinds)
}

// String returns the registered name of the kind.
func (k Kind) String() string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	if int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kinds[k].name
}

// Traits returns the capability set registered for the kind.
func (k Kind) Traits() Trait {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	if int(k) >= len(kinds) {
		return 0
	}
	return kinds[k].traits
}

// Is reports whether the kind carries every trait in t.
func (k Kind) Is(t Trait) bool { return k.Traits().Has(t) }

// KindTable is a dispatch table indexed by Kind. Lookups are O(1) slice
// indexing; the table grows on demand so kinds registered after its
// creation are still accepted by Set.
type KindTable[F any] struct {
	fns []F
	set []bool
}

// Set installs f for kind k.
func (t *KindTable[F]) Set(k Kind, f F) {
	if int(k) >= len(t.fns) {
		n := max(int(k)+1, NumKinds())
		fns := make([]F, n)
		set := make([]bool, n)
		copy(fns, t.fns)
		copy(set, t.set)
		t.fns, t.set = fns, set
	}
	t.fns[k] = f
	t.set[k] = true
}

// Lookup returns the entry for kind k and whether one was installed.
func (t *KindTable[F]) Lookup(k Kind) (F, bool) {
	if int(k) >= len(t.fns) || !t.set[k] {
		var zero F
		return zero, false
	}
	return t.fns[k], true
}

// Missing returns the kinds among want that have no entry. A pass that must
// handle a closed set of kinds exhaustively checks Missing at construction.
func (t *KindTable[F]) Missing(want ...Kind) []Kind {
	var out []Kind
	for _, k := range want {
		if _, ok := t.Lookup(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

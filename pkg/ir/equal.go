package ir

// Equal reports shallow equality: same kind and equal immediate non-child
// fields. Children are not compared.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.EqualShallow(b)
}

// Same reports whether a and b are shallow-equal and refer to the very same
// child instances in the same slots. Same implies deep equality without
// walking the subtrees.
func Same(a, b Node) bool {
	if a == b {
		return true
	}
	if !Equal(a, b) {
		return false
	}
	ca, cb := ChildrenOf(a).Slots(), ChildrenOf(b).Slots()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i].Name != cb[i].Name || ca[i].Node != cb[i].Node {
			return false
		}
	}
	return true
}

type nodePair struct{ a, b Node }

// Equiv reports deep structural equality. Separately allocated subtrees
// compare equal when their shapes and fields match; identities are ignored.
// Pairs are memoised so shared subtrees are compared once, and a pair met
// again while it is still being compared is assumed equal, which makes the
// comparison terminate on graph regions with back-edges.
func Equiv(a, b Node) bool {
	return equiv(a, b, map[nodePair]bool{})
}

func equiv(a, b Node, seen map[nodePair]bool) bool {
	if a == b {
		return true
	}
	if !Equal(a, b) {
		return false
	}
	p := nodePair{a, b}
	if r, ok := seen[p]; ok {
		return r
	}
	seen[p] = true
	ca, cb := ChildrenOf(a).Slots(), ChildrenOf(b).Slots()
	ok := len(ca) == len(cb)
	for i := 0; ok && i < len(ca); i++ {
		ok = ca[i].Name == cb[i].Name && equiv(ca[i].Node, cb[i].Node, seen)
	}
	seen[p] = ok
	return ok
}

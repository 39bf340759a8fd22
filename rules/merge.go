package rules

// Merge deep-merges src into dst and returns a new tree; neither input is
// modified. Same-named leaves are combined with And so both keep applying.
// Groups merge key by key. A Delete in src removes the key. When a key holds a
// leaf on one side and a group on the other, src wins.
func Merge(dst, src Node) Node {
	return combine(dst, src, func(a, b *Rule) Node { return And(a, b) })
}

// Override applies a caller patch to base: leaves in patch replace leaves in
// base, Delete removes keys and new keys are added. Groups merge recursively.
func Override(base, patch Node) Node {
	return combine(base, patch, func(_, b *Rule) Node { return b })
}

// MergeGroups is Merge over groups; the result is never nil.
func MergeGroups(dst, src Group) Group {
	out, _ := asGroup(Merge(dst, src))
	if out == nil {
		out = Group{}
	}
	return out
}

type leafCombiner func(a, b *Rule) Node

func combine(dst, src Node, leaves leafCombiner) Node {
	if src == nil {
		return prune(dst)
	}
	if _, del := src.(tombstone); del {
		return nil
	}
	if dst == nil {
		return prune(src)
	}
	if _, del := dst.(tombstone); del {
		return prune(src)
	}

	if a, ok := dst.(*Rule); ok {
		if b, ok := src.(*Rule); ok {
			return leaves(a, b)
		}
		return prune(src)
	}

	if !isGroupLike(dst) || !isGroupLike(src) {
		return prune(src)
	}
	_, dstDeferred := dst.(*Deferred)
	_, srcDeferred := src.(*Deferred)
	if dstDeferred || srcDeferred {
		return Defer(func() Group {
			a, _ := asGroup(dst)
			b, _ := asGroup(src)
			return combineGroups(a, b, leaves)
		})
	}
	return combineGroups(dst.(Group), src.(Group), leaves)
}

func combineGroups(dst, src Group, leaves leafCombiner) Group {
	out := make(Group, len(dst)+len(src))
	for k, v := range dst {
		if p := prune(v); p != nil {
			out[k] = p
		}
	}
	for k, v := range src {
		merged := combine(out[k], v, leaves)
		if merged == nil {
			delete(out, k)
			continue
		}
		out[k] = merged
	}
	return out
}

// prune drops tombstones from a subtree that has no counterpart to delete from.
func prune(n Node) Node {
	switch t := n.(type) {
	case nil, tombstone:
		return nil
	case Group:
		out := make(Group, len(t))
		for k, v := range t {
			if p := prune(v); p != nil {
				out[k] = p
			}
		}
		return out
	default:
		return n
	}
}

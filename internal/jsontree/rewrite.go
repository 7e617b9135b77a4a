// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsontree

import "strings"

// Rewrite returns a copy of n in which every string value that starts with
// oldBase has that prefix replaced by newBase. Matching is a literal,
// case-sensitive byte prefix; it is not aware of URL path segments, so
// "http://host:80001/x" matches the prefix "http://host:8000".
//
// Object keys, numbers, booleans, and nulls are never changed. The result
// has the same kinds, key lists, and array lengths as n.
func Rewrite(n Node, oldBase, newBase string) Node {
	switch n.kind {
	case KindObject:
		members := make([]Member, len(n.members))
		for i, m := range n.members {
			members[i] = Member{Key: m.Key, Value: Rewrite(m.Value, oldBase, newBase)}
		}
		return Object(members...)
	case KindArray:
		elems := make([]Node, len(n.elems))
		for i, e := range n.elems {
			elems[i] = Rewrite(e, oldBase, newBase)
		}
		return Array(elems...)
	case KindString:
		if rest, ok := strings.CutPrefix(n.text, oldBase); ok {
			return String(newBase + rest)
		}
		return n
	case KindNumber, KindBool, KindNull:
		return n
	}
	return n
}

// Strings calls fn for every string value in n, depth first, in document
// order. Object keys are not visited.
func Strings(n Node, fn func(string)) {
	switch n.kind {
	case KindObject:
		for _, m := range n.members {
			Strings(m.Value, fn)
		}
	case KindArray:
		for _, e := range n.elems {
			Strings(e, fn)
		}
	case KindString:
		fn(n.text)
	}
}

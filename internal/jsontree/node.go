// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsontree models a JSON document as a closed tagged variant that
// keeps object member order and number literals, so a document can be
// parsed, transformed, and written back with a stable diff.
package jsontree

import "fmt"

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Node
}

// Node is a JSON value. The zero Node is null.
type Node struct {
	kind    Kind
	text    string // string value, or the literal text of a number
	flag    bool
	elems   []Node
	members []Member
}

// Null returns a null node.
func Null() Node { return Node{} }

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, flag: b} }

// Number returns a number node holding the literal text lit (e.g. "90", "1.5e3").
// The literal is written back unchanged.
func Number(lit string) Node { return Node{kind: KindNumber, text: lit} }

// Int returns a number node for an integer.
func Int(i int) Node { return Number(fmt.Sprint(i)) }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, text: s} }

// Array returns an array node holding elems in order.
func Array(elems ...Node) Node {
	if elems == nil {
		elems = []Node{}
	}
	return Node{kind: KindArray, elems: elems}
}

// Object returns an object node holding members in order.
func Object(members ...Member) Node {
	if members == nil {
		members = []Member{}
	}
	return Node{kind: KindObject, members: members}
}

// Kind reports which variant n holds.
func (n Node) Kind() Kind { return n.kind }

// Text returns the string value of a string node or the literal of a number
// node. It returns "" for other kinds.
func (n Node) Text() string { return n.text }

// Truth returns the value of a bool node.
func (n Node) Truth() bool { return n.flag }

// Len returns the number of elements of an array or members of an object.
func (n Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.elems)
	case KindObject:
		return len(n.members)
	}
	return 0
}

// Elems returns the elements of an array node. The slice must not be modified.
func (n Node) Elems() []Node { return n.elems }

// Members returns the members of an object node in order. The slice must not
// be modified.
func (n Node) Members() []Member { return n.members }

// Keys returns the member keys of an object node in order.
func (n Node) Keys() []string {
	keys := make([]string, len(n.members))
	for i, m := range n.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key in an object node.
func (n Node) Get(key string) (Node, bool) {
	for _, m := range n.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Node{}, false
}

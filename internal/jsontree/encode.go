// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsontree

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Indent is the per-level indentation used by Write.
const Indent = "  "

// Write encodes n to w indented by two spaces per level, followed by a
// newline. Non-ASCII characters are written as-is and HTML characters are
// not escaped.
func Write(w io.Writer, n Node) error {
	var buf bytes.Buffer
	encode(&buf, n, Indent, 0)
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// Marshal returns the indented encoding written by Write.
func Marshal(n Node) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, n)
	return buf.Bytes()
}

// Canonical returns the compact encoding of n. Two documents are equal when
// their canonical encodings are byte-identical.
func Canonical(n Node) []byte {
	var buf bytes.Buffer
	encode(&buf, n, "", 0)
	return buf.Bytes()
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b Node) bool {
	return bytes.Equal(Canonical(a), Canonical(b))
}

// MarshalJSON implements json.Marshaler with the compact encoding.
func (n Node) MarshalJSON() ([]byte, error) {
	return Canonical(n), nil
}

func encode(buf *bytes.Buffer, n Node, indent string, depth int) {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if n.flag {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(n.text)
	case KindString:
		writeString(buf, n.text)
	case KindArray:
		if len(n.elems) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, e := range n.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			encode(buf, e, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case KindObject:
		if len(n.members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			writeString(buf, m.Key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			encode(buf, m.Value, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// writeString quotes s the way encoding/json does with HTML escaping off.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse decodes a single JSON value from data. Object member order and
// number literals are preserved. Trailing non-whitespace data is an error.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := parseValue(dec)
	if err != nil {
		return Node{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Node{}, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return Node{}, err
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Node{}, io.ErrUnexpectedEOF
		}
		return Node{}, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return Node{}, fmt.Errorf("unexpected delimiter %q at offset %d", v, dec.InputOffset())
	case string:
		return String(v), nil
	case json.Number:
		return Number(v.String()), nil
	case bool:
		return Bool(v), nil
	case nil:
		return Null(), nil
	}
	return Node{}, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

// parseObject reads members up to the closing brace. A repeated key keeps
// its first position and takes the last value.
func parseObject(dec *json.Decoder) (Node, error) {
	members := []Member{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Node{}, fmt.Errorf("object key is %T, not string, at offset %d", tok, dec.InputOffset())
		}
		val, err := parseValue(dec)
		if err != nil {
			return Node{}, err
		}
		if i, seen := index[key]; seen {
			members[i].Value = val
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Node{}, err
	}
	return Object(members...), nil
}

func parseArray(dec *json.Decoder) (Node, error) {
	elems := []Node{}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return Node{}, err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return Node{}, err
	}
	return Array(elems...), nil
}

// FromValue converts any value encoding/json can marshal (structs, maps,
// slices) into a Node, keeping struct field order.
func FromValue(v any) (Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Node{}, fmt.Errorf("marshaling value: %w", err)
	}
	return Parse(data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

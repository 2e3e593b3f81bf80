// Package keytree decodes host documents into ordered key trees that keep the
// line of every key and value.
package keytree

import "strings"

// Kind is the variant of a Value.
type Kind int

// Value kinds.
const (
	Scalar Kind = iota
	Object
	Array
)

// ScalarType classifies a scalar Value.
type ScalarType int

// Scalar types.
const (
	Null ScalarType = iota
	String
	Number
	Bool
)

// Value is a node of the key tree. Exactly one of Members, Items or the scalar
// fields is meaningful, depending on Kind.
type Value struct {
	Kind Kind
	Line int // 1-based line where the value starts

	Members []*Member // Object, in declaration order
	Items   []*Value  // Array

	Type ScalarType // Scalar
	Text string     // decoded string, number literal, "true"/"false"
}

// Member is a key of an object together with its value.
type Member struct {
	Key   string
	Line  int // line of the key
	Value *Value
}

// KeyLine is a root key and the line it was declared on.
type KeyLine struct {
	Key  string
	Line int
}

// Tree is a decoded host document.
type Tree struct {
	Root *Value
	// Partial is set when the tree came from the line-oriented fallback and
	// only holds root keys.
	Partial bool
	// Recovered holds the decode error the tree was recovered from, if any.
	Recovered error
}

// Get returns the member value for key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}

	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}

	return nil
}

// Lookup follows a path of object keys from the root.
func (t *Tree) Lookup(path ...string) *Value {
	if t == nil {
		return nil
	}

	v := t.Root
	for _, key := range path {
		v = v.Get(key)
	}

	return v
}

// IsString reports whether v is a string scalar.
func (v *Value) IsString() bool {
	return v != nil && v.Kind == Scalar && v.Type == String
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}

	switch v.Kind {
	case Object:
		keys := make([]string, 0, len(v.Members))
		for _, m := range v.Members {
			keys = append(keys, m.Key)
		}

		return "{" + strings.Join(keys, ", ") + "}"
	case Array:
		return "[...]"
	}

	if v.Type == Null {
		return "null"
	}

	return v.Text
}

// RootKeys returns the root object's keys in declaration order.
func (t *Tree) RootKeys() []KeyLine {
	if t == nil || t.Root == nil || t.Root.Kind != Object {
		return nil
	}

	keys := make([]KeyLine, 0, len(t.Root.Members))
	for _, m := range t.Root.Members {
		keys = append(keys, KeyLine{Key: m.Key, Line: m.Line})
	}

	return keys
}

// set adds or replaces a member. A repeated key keeps its first position and
// takes the last value.
func (v *Value) set(m *Member) {
	for i, existing := range v.Members {
		if existing.Key == m.Key {
			v.Members[i].Value = m.Value
			return
		}
	}

	v.Members = append(v.Members, m)
}

package zschema

import (
	"errors"
	"strings"
)

// Node is any element of a schema tree. It is implemented by *Leaf, *ListOf,
// *NestedListOf and *SubRecord; the set is closed.
//
// Nodes are read-only once built and may be shared by concurrent compilers and
// validators. SubRecord.Set and SubRecord.Delete are the only mutators; never
// call them on a schema that other goroutines are reading.
type Node interface {
	// Attrs returns a copy of the resolved common attributes.
	Attrs() Attrs
	// Kind names the node type ("String", "ListOf", "SubRecord", ...).
	Kind() string
	// Excluded reports whether the node is left out of the target's output.
	Excluded(t Target) bool
	// Err reports a construction fault recorded by an option.
	Err() error

	clone() Node
	bigQuery(k Key) (BigQueryField, error)
	elasticsearch() ESProperty
	proto(k Key, st *protoState) (protoPart, error)
	flat(parent string, k Key, repeated bool, yield func(FlatField, error) bool) bool
	docs(t Target, k Key, parentCategory string) DocNode
	validate(v *validation, k Key, value any, parentPolicy Policy, path Path)
}

// Definer is a source for Extends. *SubRecord and *Record implement it.
type Definer interface {
	// Definition returns a deep copy of the field definitions.
	Definition() Definition
	Attrs() Attrs
}

// Definition maps field keys to child nodes.
type Definition map[Key]Node

// clone deep-copies every child node.
func (d Definition) clone() Definition {
	if d == nil {
		return nil
	}
	out := make(Definition, len(d))
	for k, n := range d {
		if n == nil || isNilNode(n) {
			out[k] = n
			continue
		}
		out[k] = n.clone()
	}
	return out
}

// checkName rejects field names the targets cannot carry.
func checkName(op string, k Key) error {
	if k == nil {
		return nil
	}
	if strings.Contains(k.String(), "-") {
		return &SchemaError{Op: op, Key: k.String(), Err: ErrInvalidName, Msg: "'-' is not allowed in field names"}
	}
	return nil
}

func keyString(k Key) string {
	if k == nil {
		return ""
	}
	return k.String()
}

func configErr(op string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &SchemaError{Op: op, Err: ErrInvalidSchema, Msg: errors.Join(errs...).Error()}
}

func mode(required bool) string {
	if required {
		return "REQUIRED"
	}
	return "NULLABLE"
}

func flatMode(required, repeated bool) string {
	switch {
	case repeated:
		return "repeated"
	case required:
		return "required"
	}
	return "nullable"
}

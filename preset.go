package zschema

import (
	"slices"
)

type presetKind int

const (
	presetLeaf presetKind = iota
	presetList
	presetNestedList
	presetSubRecord
)

// Preset is a reusable, pre-configured node type. Each New call builds a fresh
// node that shares nothing with other instances: the preset's options are
// applied first, then the call-site options.
type Preset struct {
	kind     presetKind
	leafKind LeafKind
	child    Node
	subName  string
	def      Definition
	opts     []Option
}

// LeafType returns a preset for leaves of the given kind.
func LeafType(kind LeafKind, opts ...Option) *Preset {
	return &Preset{kind: presetLeaf, leafKind: kind, opts: slices.Clone(opts)}
}

// ListOfType returns a preset for lists. child may be nil and bound later
// with Of.
func ListOfType(child Node, opts ...Option) *Preset {
	return &Preset{kind: presetList, child: child, opts: slices.Clone(opts)}
}

// NestedListOfType returns a preset for nested lists.
func NestedListOfType(child Node, subrecordName string, opts ...Option) *Preset {
	return &Preset{kind: presetNestedList, child: child, subName: subrecordName, opts: slices.Clone(opts)}
}

// SubRecordType returns a preset for SubRecords with the given definition.
func SubRecordType(def Definition, opts ...Option) *Preset {
	return &Preset{kind: presetSubRecord, def: def, opts: slices.Clone(opts)}
}

// Kind names the node type the preset builds.
func (p *Preset) Kind() string {
	switch p.kind {
	case presetLeaf:
		return p.leafKind.String()
	case presetList:
		return "ListOf"
	case presetNestedList:
		return "NestedListOf"
	}
	return "SubRecord"
}

// With derives a preset with extra default options.
func (p *Preset) With(opts ...Option) *Preset {
	c := *p
	c.opts = append(slices.Clone(p.opts), opts...)
	return &c
}

// Of binds the child of a list preset built without one. Binding a child on a
// preset that already has one is a positional conflict.
func (p *Preset) Of(child Node) (*Preset, error) {
	if p.kind != presetList && p.kind != presetNestedList {
		return nil, &SchemaError{Op: "preset", Key: p.Kind(), Err: ErrPositionalConflict, Msg: "only list presets take a child"}
	}
	if p.child != nil {
		return nil, &SchemaError{Op: "preset", Key: p.Kind(), Err: ErrPositionalConflict, Msg: "child already bound"}
	}
	if err := checkChild("preset", nil, child); err != nil {
		return nil, err
	}
	c := *p
	c.child = child
	return &c, nil
}

// New builds a fresh node.
func (p *Preset) New(opts ...Option) (Node, error) {
	all := append(slices.Clone(p.opts), opts...)
	switch p.kind {
	case presetLeaf:
		l := NewLeaf(p.leafKind, all...)
		if err := l.Err(); err != nil {
			return nil, err
		}
		return l, nil
	case presetList, presetNestedList:
		if p.child == nil {
			return nil, &SchemaError{Op: "preset", Key: p.Kind(), Err: ErrInvalidSchema, Msg: "no child bound"}
		}
		if err := checkChild("preset", nil, p.child); err != nil {
			return nil, err
		}
		if p.kind == presetNestedList {
			return NewNestedListOf(p.child.clone(), p.subName, all...)
		}
		return NewListOf(p.child.clone(), all...)
	}
	return NewSubRecord(p.def.clone(), all...)
}

// MustNew is like New but panics on error.
func (p *Preset) MustNew(opts ...Option) Node {
	n, err := p.New(opts...)
	if err != nil {
		panic(err)
	}
	return n
}

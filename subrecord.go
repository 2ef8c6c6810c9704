package zschema

import (
	"fmt"
	"sort"
)

// SubRecord is a nested object: a fixed set of keyed child nodes.
type SubRecord struct {
	attrs        Attrs
	def          Definition
	byES         map[string]Key // document key -> definition key
	allowUnknown bool
	typeName     string
	esNested     bool
}

var _ Node = (*SubRecord)(nil)

// NewSubRecord builds a SubRecord. Every child is checked now; Extends sources
// are deep-copied and merged underneath def.
func NewSubRecord(def Definition, opts ...Option) (*SubRecord, error) {
	return newSubRecord("subrecord", def, newConfig(config{}, opts))
}

// MustSubRecord is like NewSubRecord but panics on error.
func MustSubRecord(def Definition, opts ...Option) *SubRecord {
	s, err := NewSubRecord(def, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func newSubRecord(op string, def Definition, cfg config) (*SubRecord, error) {
	if err := configErr(op, cfg.errs); err != nil {
		return nil, err
	}
	s := &SubRecord{
		attrs:        cfg.attrs,
		def:          make(Definition, len(def)),
		allowUnknown: cfg.allowUnknown,
		typeName:     cfg.typeName,
		esNested:     cfg.esNested,
	}
	for k, n := range def {
		if k == nil {
			return nil, &SchemaError{Op: op, Err: ErrInvalidSchema, Msg: "nil key"}
		}
		s.def[k] = n
	}
	if err := s.index(op); err != nil {
		return nil, err
	}
	for _, src := range cfg.extends {
		base := &SubRecord{attrs: src.Attrs(), def: src.Definition()}
		merged, err := s.Merge(base)
		if err != nil {
			return nil, err
		}
		s.def, s.byES = merged.def, merged.byES
		s.attrs.Required = merged.attrs.Required
		s.attrs.Doc = merged.attrs.Doc
	}
	return s, nil
}

// index checks the children and builds the document key lookup.
func (s *SubRecord) index(op string) error {
	s.byES = make(map[string]Key, len(s.def))
	for _, k := range sortedKeys(s.def) {
		if err := checkChild(op, k, s.def[k]); err != nil {
			return err
		}
		es := k.ESKey()
		if prev, dup := s.byES[es]; dup {
			return &SchemaError{Op: op, Key: es, Err: ErrInvalidSchema,
				Msg: fmt.Sprintf("keys %s and %s render to the same field", prev, k)}
		}
		s.byES[es] = k
	}
	return nil
}

func (s *SubRecord) Kind() string           { return "SubRecord" }
func (s *SubRecord) Attrs() Attrs           { return s.attrs.clone() }
func (s *SubRecord) Err() error             { return nil }
func (s *SubRecord) Excluded(t Target) bool { return s.attrs.Exclude&t != 0 }
func (s *SubRecord) AllowUnknown() bool     { return s.allowUnknown }
func (s *SubRecord) TypeName() string       { return s.typeName }
func (s *SubRecord) ESNested() bool         { return s.esNested }
func (s *SubRecord) Len() int               { return len(s.def) }

// Keys returns the definition keys in display order.
func (s *SubRecord) Keys() []Key { return sortedKeys(s.def) }

// Get returns the child stored under k.
func (s *SubRecord) Get(k Key) (Node, bool) {
	n, ok := s.def[k]
	return n, ok
}

// Lookup returns the child a document key addresses.
func (s *SubRecord) Lookup(docKey string) (Key, Node, bool) {
	k, ok := s.byES[docKey]
	if !ok {
		return nil, nil, false
	}
	return k, s.def[k], true
}

// Definition returns a deep copy of the definition.
func (s *SubRecord) Definition() Definition { return s.def.clone() }

// Set adds or replaces a child.
func (s *SubRecord) Set(k Key, n Node) error {
	if k == nil {
		return &SchemaError{Op: "set", Err: ErrInvalidSchema, Msg: "nil key"}
	}
	if err := checkChild("set", k, n); err != nil {
		return err
	}
	if prev, ok := s.byES[k.ESKey()]; ok && prev != k {
		return &SchemaError{Op: "set", Key: k.String(), Err: ErrInvalidSchema,
			Msg: fmt.Sprintf("collides with existing key %s", prev)}
	}
	s.def[k] = n
	s.byES[k.ESKey()] = k
	return nil
}

// Delete removes a child; a missing key is a no-op.
func (s *SubRecord) Delete(k Key) {
	if _, ok := s.def[k]; !ok {
		return
	}
	delete(s.def, k)
	delete(s.byES, k.ESKey())
}

func (s *SubRecord) clone() Node { return s.cloneSubRecord() }

func (s *SubRecord) cloneSubRecord() *SubRecord {
	c := *s
	c.attrs = s.attrs.clone()
	c.def = s.def.clone()
	c.byES = make(map[string]Key, len(s.byES))
	for k, v := range s.byES {
		c.byES[k] = v
	}
	return &c
}

// Merge combines s with other into a new SubRecord. Keys held by one side are
// kept; a key held by both must be a SubRecord on both sides and is merged
// recursively. Required is OR-ed and the first non-empty doc wins. Neither
// input is modified.
func (s *SubRecord) Merge(other *SubRecord) (*SubRecord, error) {
	out := s.cloneSubRecord()
	if other == nil {
		return out, nil
	}
	for k, r := range other.def {
		l, ok := out.def[k]
		if !ok {
			out.def[k] = r.clone()
			continue
		}
		if l.Kind() != r.Kind() {
			return nil, &MergeConflictError{Key: k.String(), Left: l.Kind(), Right: r.Kind(), Reason: "differing types"}
		}
		ls, lok := l.(*SubRecord)
		rs, rok := r.(*SubRecord)
		if !lok || !rok {
			return nil, &MergeConflictError{Key: k.String(), Left: l.Kind(), Right: r.Kind(), Reason: "only subrecords can be merged"}
		}
		m, err := ls.Merge(rs)
		if err != nil {
			return nil, err
		}
		out.def[k] = m
	}
	out.attrs.Required = s.attrs.Required || other.attrs.Required
	out.attrs.Doc = firstNonEmpty(s.attrs.Doc, other.attrs.Doc)
	if err := out.index("merge"); err != nil {
		return nil, err
	}
	return out, nil
}

// included returns the keys of children present in target t, sorted.
func (s *SubRecord) included(t Target) []Key {
	keys := sortedKeys(s.def)
	out := keys[:0]
	for _, k := range keys {
		if !s.def[k].Excluded(t) {
			out = append(out, k)
		}
	}
	return out
}

func (s *SubRecord) bigQueryFields() ([]BigQueryField, error) {
	keys := s.included(TargetBigQuery)
	fields := make([]BigQueryField, 0, len(keys))
	for _, k := range keys {
		f, err := s.def[k].bigQuery(k)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (s *SubRecord) bigQuery(k Key) (BigQueryField, error) {
	if err := checkName("bigquery", k); err != nil {
		return BigQueryField{}, err
	}
	fields, err := s.bigQueryFields()
	if err != nil {
		return BigQueryField{}, err
	}
	return BigQueryField{
		Name:   k.BigQueryKey(),
		Type:   "RECORD",
		Mode:   mode(s.attrs.Required),
		Fields: fields,
		Doc:    s.attrs.Doc,
	}, nil
}

func (s *SubRecord) elasticsearch() ESProperty {
	p := ESProperty{Properties: map[string]ESProperty{}}
	for _, k := range s.included(TargetElasticsearch) {
		p.Properties[k.ESKey()] = s.def[k].elasticsearch()
	}
	if s.esNested {
		p.Type = "nested"
	}
	return p
}

func (s *SubRecord) flat(parent string, k Key, repeated bool, yield func(FlatField, error) bool) bool {
	if err := checkName("flat", k); err != nil {
		return yield(FlatField{}, err)
	}
	name := joinFlat(parent, k.ESKey())
	if !yield(FlatField{Name: name, Type: s.Kind(), Mode: flatMode(s.attrs.Required, repeated), Documentation: s.attrs.Doc}, nil) {
		return false
	}
	return s.flatChildren(name, yield)
}

func (s *SubRecord) flatChildren(parent string, yield func(FlatField, error) bool) bool {
	for _, ck := range sortedKeys(s.def) {
		if !s.def[ck].flat(parent, ck, false, yield) {
			return false
		}
	}
	return true
}

func (s *SubRecord) docsNode(t Target, kind, parentCategory string) DocNode {
	category := firstNonEmpty(s.attrs.Category, parentCategory)
	d := DocNode{
		Category: category,
		Doc:      s.attrs.Doc,
		Desc:     s.attrs.Desc,
		Type:     kind,
		Required: s.attrs.Required,
		Fields:   map[string]DocNode{},
	}
	for _, k := range s.included(t) {
		name := k.ESKey()
		if t == TargetBigQuery {
			name = k.BigQueryKey()
		}
		d.Fields[name] = s.def[k].docs(t, k, category)
	}
	return d
}

func (s *SubRecord) docs(t Target, _ Key, parentCategory string) DocNode {
	return s.docsNode(t, s.Kind(), parentCategory)
}

func (s *SubRecord) validate(v *validation, k Key, value any, parentPolicy Policy, path Path) {
	if err := checkName("validate", k); err != nil {
		v.fault(err)
		return
	}
	policy := v.effective(s.attrs.Policy, parentPolicy)
	obj, ok := asObject(value)
	if !ok {
		v.add(policy, path, CodeInvalidType, typeIssue("object", value))
		return
	}
	s.validateMembers(v, obj, policy, s.allowUnknown, policy, path)
}

// validateMembers walks the document's keys in sorted order. Unknown keys are
// reported at the object's own path under unknownPolicy.
func (s *SubRecord) validateMembers(v *validation, obj map[string]any, unknownPolicy Policy, allowUnknown bool, childParent Policy, path Path) {
	if len(obj) > 0 && v.tooDeep(path) {
		return
	}
	keys := make([]string, 0, len(obj))
	for dk := range obj {
		keys = append(keys, dk)
	}
	sort.Strings(keys)
	for _, dk := range keys {
		if v.done() {
			return
		}
		k, child, ok := s.Lookup(dk)
		if !ok {
			if !allowUnknown {
				v.add(unknownPolicy, path, CodeUnknownKey, map[string]string{"key": dk})
			}
			continue
		}
		child.validate(v, k, obj[dk], childParent, path.Key(dk))
	}
}

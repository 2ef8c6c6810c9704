package zschema

import (
	"strconv"
)

// ListOf is a repeated value of a single child type.
type ListOf struct {
	attrs    Attrs
	child    Node
	minItems int
	maxItems int
}

var _ Node = (*ListOf)(nil)

// NewListOf wraps child. MinItems and MaxItems bound the length; 0 leaves a
// side unbounded and a minimum above the maximum is rejected.
func NewListOf(child Node, opts ...Option) (*ListOf, error) {
	cfg := newConfig(config{}, opts)
	return newListOf(child, cfg)
}

// MustListOf is like NewListOf but panics on error.
func MustListOf(child Node, opts ...Option) *ListOf {
	l, err := NewListOf(child, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

func newListOf(child Node, cfg config) (*ListOf, error) {
	if err := checkChild("listof", nil, child); err != nil {
		return nil, err
	}
	if err := configErr("listof", cfg.errs); err != nil {
		return nil, err
	}
	if cfg.minItems > 0 && cfg.maxItems > 0 && cfg.minItems > cfg.maxItems {
		return nil, &SchemaError{Op: "listof", Err: ErrInvalidSchema,
			Msg: "min_items " + strconv.Itoa(cfg.minItems) + " exceeds max_items " + strconv.Itoa(cfg.maxItems)}
	}
	return &ListOf{attrs: cfg.attrs, child: child, minItems: cfg.minItems, maxItems: cfg.maxItems}, nil
}

// checkChild rejects nil and faulty nodes placed in a compound.
func checkChild(op string, k Key, n Node) error {
	if n == nil || isNilNode(n) {
		return &SchemaError{Op: op, Key: keyString(k), Err: ErrInvalidSchema, Msg: "not a schema node"}
	}
	if _, root := n.(*Record); root {
		return &SchemaError{Op: op, Key: keyString(k), Err: ErrInvalidSchema, Msg: "a Record cannot be nested"}
	}
	if err := n.Err(); err != nil {
		return &SchemaError{Op: op, Key: keyString(k), Err: ErrInvalidSchema, Msg: err.Error()}
	}
	return nil
}

func isNilNode(n Node) bool {
	switch x := n.(type) {
	case *Leaf:
		return x == nil
	case *ListOf:
		return x == nil
	case *NestedListOf:
		return x == nil
	case *SubRecord:
		return x == nil
	}
	return false
}

func (l *ListOf) Kind() string  { return "ListOf" }
func (l *ListOf) Attrs() Attrs  { return l.attrs.clone() }
func (l *ListOf) Err() error    { return nil }
func (l *ListOf) Child() Node   { return l.child }
func (l *ListOf) MinItems() int { return l.minItems }
func (l *ListOf) MaxItems() int { return l.maxItems }

// Excluded is true when the list or its child is excluded.
func (l *ListOf) Excluded(t Target) bool {
	return l.attrs.Exclude&t != 0 || l.child.Excluded(t)
}

func (l *ListOf) clone() Node {
	c := *l
	c.attrs = l.attrs.clone()
	c.child = l.child.clone()
	return &c
}

func (l *ListOf) bigQuery(k Key) (BigQueryField, error) {
	f, err := l.child.bigQuery(k)
	if err != nil {
		return f, err
	}
	f.Mode = "REPEATED"
	return f, nil
}

// Elasticsearch fields are implicitly repeatable.
func (l *ListOf) elasticsearch() ESProperty { return l.child.elasticsearch() }

func (l *ListOf) proto(k Key, st *protoState) (protoPart, error) {
	p, err := l.child.proto(k, st)
	if err != nil {
		return p, err
	}
	p.field = "repeated " + p.field
	return p, nil
}

func (l *ListOf) flat(parent string, k Key, _ bool, yield func(FlatField, error) bool) bool {
	return l.child.flat(parent, k, true, yield)
}

func (l *ListOf) docs(t Target, k Key, parentCategory string) DocNode {
	category := firstNonEmpty(l.attrs.Category, parentCategory)
	d := l.child.docs(t, k, category)
	d.Category = category
	d.Repeated = true
	if l.attrs.Doc != "" {
		d.Doc = l.attrs.Doc
	}
	return d
}

func (l *ListOf) validate(v *validation, k Key, value any, parentPolicy Policy, path Path) {
	if err := checkName("validate", k); err != nil {
		v.fault(err)
		return
	}
	policy := v.effective(l.attrs.Policy, parentPolicy)
	items, ok := asList(value)
	switch {
	case !ok:
		v.add(policy, path, CodeInvalidType, typeIssue("array", value))
		return
	case l.maxItems > 0 && len(items) > l.maxItems:
		v.add(policy, path, CodeTooLong, map[string]string{"max": strconv.Itoa(l.maxItems)})
		return
	case l.minItems > 0 && len(items) < l.minItems:
		v.add(policy, path, CodeTooShort, map[string]string{"min": strconv.Itoa(l.minItems)})
		return
	}
	if len(items) > 0 && v.tooDeep(path) {
		return
	}
	for i, item := range items {
		if v.done() {
			return
		}
		l.child.validate(v, k, item, policy, path.Index(i))
	}
}

package zschema

// DefaultNestedMaxItems is the MaxItems a NestedListOf starts with.
const DefaultNestedMaxItems = 10

// NestedListOf is a ListOf that BigQuery stores as a repeated record holding
// one repeated field, for engines that reject bare repeated values.
type NestedListOf struct {
	ListOf
	subrecordName string
}

var _ Node = (*NestedListOf)(nil)

// NewNestedListOf wraps child; subrecordName names the inner repeated field.
func NewNestedListOf(child Node, subrecordName string, opts ...Option) (*NestedListOf, error) {
	cfg := newConfig(config{maxItems: DefaultNestedMaxItems, subrecordName: subrecordName}, opts)
	if cfg.subrecordName == "" {
		return nil, &SchemaError{Op: "nestedlistof", Err: ErrInvalidSchema, Msg: "subrecord name is required"}
	}
	l, err := newListOf(child, cfg)
	if err != nil {
		return nil, err
	}
	return &NestedListOf{ListOf: *l, subrecordName: cfg.subrecordName}, nil
}

// MustNestedListOf is like NewNestedListOf but panics on error.
func MustNestedListOf(child Node, subrecordName string, opts ...Option) *NestedListOf {
	l, err := NewNestedListOf(child, subrecordName, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *NestedListOf) Kind() string          { return "NestedListOf" }
func (l *NestedListOf) SubrecordName() string { return l.subrecordName }

func (l *NestedListOf) clone() Node {
	inner := l.ListOf.clone().(*ListOf)
	return &NestedListOf{ListOf: *inner, subrecordName: l.subrecordName}
}

// wrapper is the record BigQuery sees: {subrecordName: ListOf(child)}.
func (l *NestedListOf) wrapper() *SubRecord {
	return &SubRecord{
		def:  Definition{Name(l.subrecordName): &ListOf{child: l.child}},
		byES: map[string]Key{l.subrecordName: Name(l.subrecordName)},
	}
}

func (l *NestedListOf) bigQuery(k Key) (BigQueryField, error) {
	if err := checkName("bigquery", k); err != nil {
		return BigQueryField{}, err
	}
	f, err := l.wrapper().bigQuery(k)
	if err != nil {
		return f, err
	}
	f.Mode = "REPEATED"
	if l.attrs.Doc != "" {
		f.Doc = l.attrs.Doc
	}
	return f, nil
}

func (l *NestedListOf) docs(t Target, k Key, parentCategory string) DocNode {
	if t != TargetBigQuery {
		return l.ListOf.docs(t, k, parentCategory)
	}
	category := firstNonEmpty(l.attrs.Category, parentCategory)
	d := l.wrapper().docs(t, k, category)
	d.Repeated = true
	if l.attrs.Doc != "" {
		d.Doc = l.attrs.Doc
	}
	return d
}

package zschema

import (
	"fmt"
	"slices"
	"time"
)

// Leaf is a terminal scalar node.
type Leaf struct {
	kind   LeafKind
	attrs  Attrs
	es     ESSettings
	values []string

	minText, maxText string
	min, max         time.Time

	err error
}

var _ Node = (*Leaf)(nil)

// NewLeaf builds a leaf of the given kind. Faults in the options are recorded
// on the leaf and reported by Err and by any constructor the leaf is passed to.
func NewLeaf(kind LeafKind, opts ...Option) *Leaf {
	if !kind.valid() {
		return &Leaf{kind: kind, err: &SchemaError{Op: "leaf", Key: kind.String(), Err: ErrInvalidSchema, Msg: "unknown leaf kind"}}
	}
	cfg := newConfig(config{es: kind.ESDefaults()}, opts)
	l := &Leaf{
		kind:    kind,
		attrs:   cfg.attrs,
		es:      cfg.es,
		values:  cfg.values,
		minText: cfg.minValue,
		maxText: cfg.maxValue,
		min:     defaultMinTime,
		max:     defaultMaxTime,
	}
	if kind.spec().class == classDateTime {
		if cfg.minValue != "" {
			t, err := parseDateTime(cfg.minValue)
			if err != nil {
				cfg.fail("min_value %q: %v", cfg.minValue, err)
			}
			l.min = t
		}
		if cfg.maxValue != "" {
			t, err := parseDateTime(cfg.maxValue)
			if err != nil {
				cfg.fail("max_value %q: %v", cfg.maxValue, err)
			}
			l.max = t
		}
	}
	l.err = configErr(kind.String(), cfg.errs)
	return l
}

// The constructors below build one leaf of the kind they name; see the
// catalog in leaf_catalog.go for each kind's engine types and checks.

// String is an unanalyzed keyword.
func String(opts ...Option) *Leaf { return NewLeaf(KindString, opts...) }

// EnglishString is full text under the standard analyzer.
func EnglishString(opts ...Option) *Leaf { return NewLeaf(KindEnglishString, opts...) }

// AnalyzedString is full text under the simple analyzer.
func AnalyzedString(opts ...Option) *Leaf { return NewLeaf(KindAnalyzedString, opts...) }

// WhitespaceAnalyzedString is text tokenized on whitespace and lowercased.
func WhitespaceAnalyzedString(opts ...Option) *Leaf {
	return NewLeaf(KindWhitespaceAnalyzedString, opts...)
}

// HTML is markup indexed with the html analyzer.
func HTML(opts ...Option) *Leaf { return NewLeaf(KindHTML, opts...) }

// HexString accepts pairs of hex digits.
func HexString(opts ...Option) *Leaf { return NewLeaf(KindHexString, opts...) }

// Enum accepts only the given values; an empty list accepts any string.
func Enum(values []string, opts ...Option) *Leaf {
	return NewLeaf(KindEnum, append([]Option{Values(values...)}, opts...)...)
}

// IPAddress accepts IPv4 or IPv6 text without a zone.
func IPAddress(opts ...Option) *Leaf { return NewLeaf(KindIPAddress, opts...) }

// IPv4Address accepts dotted-quad text.
func IPv4Address(opts ...Option) *Leaf { return NewLeaf(KindIPv4Address, opts...) }

// IPv6Address accepts IPv6 text.
func IPv6Address(opts ...Option) *Leaf { return NewLeaf(KindIPv6Address, opts...) }

// Integer leaves accept integral numbers within ±(2^bits-1), bits being the
// catalog width of the kind.
func Signed8BitInteger(opts ...Option) *Leaf    { return NewLeaf(KindSigned8BitInteger, opts...) }
func Signed16BitInteger(opts ...Option) *Leaf   { return NewLeaf(KindSigned16BitInteger, opts...) }
func Signed32BitInteger(opts ...Option) *Leaf   { return NewLeaf(KindSigned32BitInteger, opts...) }
func Signed64BitInteger(opts ...Option) *Leaf   { return NewLeaf(KindSigned64BitInteger, opts...) }
func Unsigned8BitInteger(opts ...Option) *Leaf  { return NewLeaf(KindUnsigned8BitInteger, opts...) }
func Unsigned16BitInteger(opts ...Option) *Leaf { return NewLeaf(KindUnsigned16BitInteger, opts...) }
func Unsigned32BitInteger(opts ...Option) *Leaf { return NewLeaf(KindUnsigned32BitInteger, opts...) }

// Float accepts any JSON number.
func Float(opts ...Option) *Leaf { return NewLeaf(KindFloat, opts...) }

// Double accepts any JSON number.
func Double(opts ...Option) *Leaf { return NewLeaf(KindDouble, opts...) }

// Boolean accepts true and false.
func Boolean(opts ...Option) *Leaf { return NewLeaf(KindBoolean, opts...) }

// Binary accepts base64 and is stored unindexed.
func Binary(opts ...Option) *Leaf { return NewLeaf(KindBinary, opts...) }

// IndexedBinary accepts base64 and is indexed as an unanalyzed string.
func IndexedBinary(opts ...Option) *Leaf { return NewLeaf(KindIndexedBinary, opts...) }

// DateTime accepts time.Time, date strings in the supported layouts, or Unix
// seconds. It maps to a BigQuery DATETIME.
func DateTime(opts ...Option) *Leaf { return NewLeaf(KindDateTime, opts...) }

// Timestamp is DateTime mapped to a BigQuery TIMESTAMP.
func Timestamp(opts ...Option) *Leaf { return NewLeaf(KindTimestamp, opts...) }

// OID accepts dotted numeric object identifiers.
func OID(opts ...Option) *Leaf { return NewLeaf(KindOID, opts...) }

// EmailAddress is text under the lowercase whitespace analyzer.
func EmailAddress(opts ...Option) *Leaf { return NewLeaf(KindEmailAddress, opts...) }

// URL, URI and FQDN are text under the URL analyzer settings.
func URL(opts ...Option) *Leaf  { return NewLeaf(KindURL, opts...) }
func URI(opts ...Option) *Leaf  { return NewLeaf(KindURI, opts...) }
func FQDN(opts ...Option) *Leaf { return NewLeaf(KindFQDN, opts...) }

func (l *Leaf) LeafKind() LeafKind     { return l.kind }
func (l *Leaf) Kind() string           { return l.kind.String() }
func (l *Leaf) Attrs() Attrs           { return l.attrs.clone() }
func (l *Leaf) ES() ESSettings         { return l.es }
func (l *Leaf) Values() []string       { return slices.Clone(l.values) }
func (l *Leaf) Err() error             { return l.err }
func (l *Leaf) Excluded(t Target) bool { return l.attrs.Exclude&t != 0 }

// Bounds returns the configured min_value and max_value text, empty when the
// defaults apply.
func (l *Leaf) Bounds() (min, max string) { return l.minText, l.maxText }

func (l *Leaf) clone() Node {
	c := *l
	c.attrs = l.attrs.clone()
	c.values = slices.Clone(l.values)
	return &c
}

func (l *Leaf) bigQuery(k Key) (BigQueryField, error) {
	if err := checkName("bigquery", k); err != nil {
		return BigQueryField{}, err
	}
	return BigQueryField{
		Name: k.BigQueryKey(),
		Type: l.kind.BigQueryType(),
		Mode: mode(l.attrs.Required),
		Doc:  l.attrs.Doc,
	}, nil
}

func (l *Leaf) elasticsearch() ESProperty {
	p := ESProperty{
		Type:           l.kind.ESType(),
		Index:          l.es.Index,
		Analyzer:       l.es.Analyzer,
		SearchAnalyzer: l.es.SearchAnalyzer,
	}
	if l.es.IncludeRaw {
		p.Fields = map[string]ESProperty{"raw": {Type: "keyword"}}
	}
	return p
}

func (l *Leaf) proto(k Key, _ *protoState) (protoPart, error) {
	if err := checkName("proto", k); err != nil {
		return protoPart{}, err
	}
	return protoPart{field: l.kind.ProtoType() + " " + k.BigQueryKey()}, nil
}

func (l *Leaf) flat(parent string, k Key, repeated bool, yield func(FlatField, error) bool) bool {
	if err := checkName("flat", k); err != nil {
		return yield(FlatField{}, err)
	}
	f := FlatField{
		Name:          joinFlat(parent, k.ESKey()),
		Type:          l.Kind(),
		ESType:        l.kind.ESType(),
		Mode:          flatMode(l.attrs.Required, repeated),
		Documentation: l.attrs.Doc,
	}
	if !yield(f, nil) {
		return false
	}
	if l.es.IncludeRaw {
		f.Name += ".raw"
		return yield(f, nil)
	}
	return true
}

func (l *Leaf) docs(t Target, _ Key, parentCategory string) DocNode {
	d := DocNode{
		DetailType: l.Kind(),
		Category:   firstNonEmpty(l.attrs.Category, parentCategory),
		Doc:        l.attrs.Doc,
		Desc:       l.attrs.Desc,
		Required:   l.attrs.Required,
		Examples:   slices.Clone(l.attrs.Examples),
	}
	if len(l.values) > 0 {
		d.Values = slices.Clone(l.values)
		d.Examples = nil
	}
	switch t {
	case TargetElasticsearch:
		d.Type = l.kind.ESType()
		d.Analyzer = l.es.Analyzer
	default:
		d.Type = l.kind.BigQueryType()
	}
	return d
}

func (l *Leaf) validate(v *validation, k Key, value any, parentPolicy Policy, path Path) {
	if err := checkName("validate", k); err != nil {
		v.fault(err)
		return
	}
	policy := v.effective(l.attrs.Policy, parentPolicy)
	if value == nil {
		if l.attrs.Required {
			v.requiredNull(policy, path)
		}
		return
	}
	code, data := l.check(value)
	if code != "" {
		v.add(policy, path, code, data)
	}
}

// check applies the class test and the kind predicate.
func (l *Leaf) check(value any) (string, map[string]string) {
	spec := l.kind.spec()
	mismatch := func() (string, map[string]string) {
		return CodeInvalidType, map[string]string{"expected": spec.class.String(), "got": typeName(value)}
	}
	switch spec.class {
	case classString:
		s, ok := value.(string)
		if !ok {
			return mismatch()
		}
		if spec.check != nil {
			return spec.check(l, s)
		}
	case classBool:
		if _, ok := value.(bool); !ok {
			return mismatch()
		}
	case classFloat:
		if !isFloat(value) {
			return mismatch()
		}
	case classInteger:
		n, ok := asInteger(value)
		if !ok {
			return mismatch()
		}
		lo, hi := integerBounds(spec.bits)
		if n.Cmp(hi) > 0 {
			return CodeTooBig, map[string]string{"value": display(value), "max": hi.String()}
		}
		if n.Cmp(lo) < 0 {
			return CodeTooSmall, map[string]string{"value": display(value), "min": lo.String()}
		}
	case classDateTime:
		t, ok, err := asDateTime(value)
		if !ok {
			return mismatch()
		}
		if err != nil {
			return formatIssue(fmt.Sprint(value), "timestamp")
		}
		if t.After(l.max) {
			return CodeTooBig, map[string]string{"value": display(value), "max": l.max.Format(time.RFC3339Nano)}
		}
		if t.Before(l.min) {
			return CodeTooSmall, map[string]string{"value": display(value), "min": l.min.Format(time.RFC3339Nano)}
		}
	}
	return "", nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func joinFlat(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

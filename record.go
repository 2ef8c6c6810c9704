package zschema

import (
	"iter"
)

// Record is the root of a schema. It is a SubRecord with the compiler and
// validator entry points. A Record is not placed inside a Definition; it can
// be an Extends source.
type Record struct {
	SubRecord
	esDynamicPolicy string
}

// NewRecord builds a schema root. Its validation policy defaults to error.
// Unknown document keys are always rejected at the root.
func NewRecord(def Definition, opts ...Option) (*Record, error) {
	cfg := newConfig(config{attrs: Attrs{Policy: PolicyError}}, opts)
	s, err := newSubRecord("record", def, cfg)
	if err != nil {
		return nil, err
	}
	return &Record{SubRecord: *s, esDynamicPolicy: cfg.esDynamicPolicy}, nil
}

// MustRecord is like NewRecord but panics on error.
func MustRecord(def Definition, opts ...Option) *Record {
	r, err := NewRecord(def, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Record) Kind() string            { return "Record" }
func (r *Record) ESDynamicPolicy() string { return r.esDynamicPolicy }

// BigQuery returns the table schema: one field per non-excluded child,
// sorted by key.
func (r *Record) BigQuery() ([]BigQueryField, error) {
	return r.bigQueryFields()
}

// Elasticsearch returns the mapping of the record under the given type name.
func (r *Record) Elasticsearch(name string) ESMapping {
	p := r.SubRecord.elasticsearch()
	p.Type = ""
	p.Dynamic = r.esDynamicPolicy
	return ESMapping{name: p}
}

// Flat lists every field depth-first as a dotted path. The sequence is lazy
// and can be ranged over more than once; a schema fault is yielded once and
// ends the sequence.
func (r *Record) Flat() iter.Seq2[FlatField, error] {
	return func(yield func(FlatField, error) bool) {
		for _, k := range sortedKeys(r.def) {
			if !r.def[k].flat("", k, false, yield) {
				return
			}
		}
	}
}

// DocsES returns the documentation tree with Elasticsearch types.
func (r *Record) DocsES(name string) map[string]DocNode {
	return map[string]DocNode{name: r.docsNode(TargetElasticsearch, r.Kind(), "")}
}

// DocsBQ returns the documentation tree with BigQuery types and keys.
func (r *Record) DocsBQ(name string) map[string]DocNode {
	return map[string]DocNode{name: r.docsNode(TargetBigQuery, r.Kind(), "")}
}

// Check validates a document and returns every issue found. The error is
// non-nil only for faults in the schema or the options; data problems are in
// the report.
func (r *Record) Check(doc any, opts ...ValidateOption) (*Report, error) {
	v, err := newRun(opts)
	if err != nil {
		return nil, err
	}
	own := r.attrs.Policy
	if own == PolicyInherit {
		own = PolicyError
	}
	obj, ok := asObject(doc)
	if !ok {
		v.addSeverity(Error, Path{}, CodeInvalidType, typeIssue("object", doc))
		return v.report(), nil
	}
	r.validateMembers(v, obj, v.effective(own, PolicyError), false, own, Path{})
	if v.err != nil {
		return nil, v.err
	}
	return v.report(), nil
}

// Validate validates a document and returns the error-severity issues as an
// Issues error, or a schema fault.
func (r *Record) Validate(doc any, opts ...ValidateOption) error {
	rep, err := r.Check(doc, opts...)
	if err != nil {
		return err
	}
	return rep.Err()
}

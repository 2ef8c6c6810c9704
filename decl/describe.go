package decl

import (
	"fmt"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/registry"
)

// Describe renders a node as a declaration. Building the result yields an
// equivalent node.
func Describe(n zschema.Node) (*Field, error) {
	var f *Field
	switch x := n.(type) {
	case *zschema.Leaf:
		f = describeLeaf(x)
	case *zschema.NestedListOf:
		of, err := Describe(x.Child())
		if err != nil {
			return nil, err
		}
		f = &Field{Type: x.Kind(), Of: of, MinItems: x.MinItems(), SubrecordName: x.SubrecordName()}
		if x.MaxItems() != zschema.DefaultNestedMaxItems {
			f.MaxItems = x.MaxItems()
		}
	case *zschema.ListOf:
		of, err := Describe(x.Child())
		if err != nil {
			return nil, err
		}
		f = &Field{Type: x.Kind(), Of: of, MinItems: x.MinItems(), MaxItems: x.MaxItems()}
	case *zschema.SubRecord:
		fields, err := describeFields(x)
		if err != nil {
			return nil, err
		}
		f = &Field{
			Type:         x.Kind(),
			Fields:       fields,
			AllowUnknown: x.AllowUnknown(),
			TypeName:     x.TypeName(),
			ESNested:     x.ESNested(),
		}
	default:
		return nil, fmt.Errorf("decl: cannot describe %T", n)
	}
	applyAttrs(f, n.Attrs())
	return f, nil
}

// DescribeRecord renders a record as a schema declaration.
func DescribeRecord(r *zschema.Record) (*Schema, error) {
	fields, err := describeFields(&r.SubRecord)
	if err != nil {
		return nil, err
	}
	a := r.Attrs()
	s := &Schema{
		Doc:             a.Doc,
		Desc:            a.Desc,
		Category:        a.Category,
		ESDynamicPolicy: r.ESDynamicPolicy(),
		Fields:          fields,
	}
	if a.Policy != zschema.PolicyError {
		s.ValidationPolicy = a.Policy.String()
	}
	return s, nil
}

// DescribeRegistry renders every registered schema.
func DescribeRegistry(reg *registry.Registry) (*File, error) {
	f := &File{Schemas: map[string]*Schema{}}
	for name, rec := range reg.All() {
		s, err := DescribeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f.Schemas[name] = s
	}
	return f, nil
}

func describeFields(s *zschema.SubRecord) (map[string]*Field, error) {
	out := make(map[string]*Field, s.Len())
	for _, k := range s.Keys() {
		child, _ := s.Get(k)
		f, err := Describe(child)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[FormatKey(k)] = f
	}
	return out, nil
}

func describeLeaf(l *zschema.Leaf) *Field {
	f := &Field{Type: l.Kind(), Values: l.Values()}
	f.MinValue, f.MaxValue = l.Bounds()
	def, es := l.LeafKind().ESDefaults(), l.ES()
	if es.Index != def.Index {
		f.ESIndex = es.Index
	}
	if es.Analyzer != def.Analyzer {
		f.ESAnalyzer = es.Analyzer
	}
	if es.SearchAnalyzer != def.SearchAnalyzer {
		f.ESSearchAnalyzer = es.SearchAnalyzer
	}
	if es.IncludeRaw != def.IncludeRaw {
		raw := es.IncludeRaw
		f.ESIncludeRaw = &raw
	}
	return f
}

func applyAttrs(f *Field, a zschema.Attrs) {
	f.Required = a.Required
	f.Doc = a.Doc
	f.Desc = a.Desc
	f.Category = a.Category
	f.Examples = a.Examples
	f.Deprecated = a.Deprecated
	f.Units = a.Units
	f.ProtoIndex = a.ProtoIndex
	f.ProtoIgnore = a.ProtoIgnore
	if a.Policy != zschema.PolicyInherit {
		f.ValidationPolicy = a.Policy.String()
	}
	for _, t := range []zschema.Target{zschema.TargetBigQuery, zschema.TargetElasticsearch} {
		if a.Exclude&t != 0 {
			f.Exclude = append(f.Exclude, t.String())
		}
	}
}

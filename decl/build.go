package decl

import (
	"fmt"
	"sort"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/registry"
)

// factory builds the node for one field. opts are the field's own options.
type factory func(b *builder, f *Field, opts []zschema.Option, at string) (zschema.Node, error)

// factories maps type tags to constructors. Entries are added at init; the
// compound builders recurse through factories, so a literal would be an
// initialization cycle.
var factories = map[string]factory{}

func init() {
	factories["ListOf"] = buildListOf
	factories["NestedListOf"] = buildNestedListOf
	factories["SubRecord"] = buildSubRecord
	for _, k := range zschema.Kinds() {
		factories[k.String()] = leafFactory(k)
	}
	for _, alias := range []string{"Byte", "Short", "Integer", "Long"} {
		k, _ := zschema.ParseLeafKind(alias)
		factories[alias] = leafFactory(k)
	}
}

func leafFactory(k zschema.LeafKind) factory {
	return func(_ *builder, f *Field, opts []zschema.Option, at string) (zschema.Node, error) {
		if f.Of != nil || len(f.Fields) > 0 {
			return nil, fmt.Errorf("%s: %s takes neither of nor fields", at, k)
		}
		l := zschema.NewLeaf(k, opts...)
		if err := l.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return l, nil
	}
}

// Tags lists the type names a declaration can use besides its own types.
func Tags() []string {
	out := make([]string, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Build turns every schema of f into a Record and registers it under its
// name. Schemas may extend each other in any order; cycles are errors.
func Build(f *File) (*registry.Registry, error) {
	b := newBuilder(f)
	reg := registry.New()
	names := make([]string, 0, len(f.Schemas))
	for n := range f.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		rec, err := b.record(n)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(n, rec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildRecord builds a single named schema of f.
func BuildRecord(f *File, name string) (*zschema.Record, error) {
	if _, ok := f.Schemas[name]; !ok {
		return nil, fmt.Errorf("%w: no schema %q", ErrDeclaration, name)
	}
	return newBuilder(f).record(name)
}

// builder memoizes declared types and schemas. resolving and building hold
// the names currently on the stack.
type builder struct {
	file      *File
	presets   map[string]*zschema.Preset
	resolving map[string]bool
	records   map[string]*zschema.Record
	building  map[string]bool
}

func newBuilder(f *File) *builder {
	return &builder{
		file:      f,
		presets:   map[string]*zschema.Preset{},
		resolving: map[string]bool{},
		records:   map[string]*zschema.Record{},
		building:  map[string]bool{},
	}
}

func (b *builder) record(name string) (*zschema.Record, error) {
	if r, ok := b.records[name]; ok {
		return r, nil
	}
	s, ok := b.file.Schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrDeclaration, name)
	}
	if b.building[name] {
		return nil, fmt.Errorf("%w: schema %q extends itself", ErrDeclaration, name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	at := "schemas." + name
	var opts []zschema.Option
	if s.Doc != "" {
		opts = append(opts, zschema.Doc(s.Doc))
	}
	if s.Desc != "" {
		opts = append(opts, zschema.Desc(s.Desc))
	}
	if s.Category != "" {
		opts = append(opts, zschema.Category(s.Category))
	}
	if s.ValidationPolicy != "" {
		p, err := zschema.ParsePolicy(s.ValidationPolicy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		opts = append(opts, zschema.ValidationPolicy(p))
	}
	if s.ESDynamicPolicy != "" {
		opts = append(opts, zschema.ESDynamicPolicy(s.ESDynamicPolicy))
	}
	for _, parent := range s.Extends {
		base, err := b.record(parent)
		if err != nil {
			return nil, fmt.Errorf("%s: extends: %w", at, err)
		}
		opts = append(opts, zschema.Extends(base))
	}
	def, err := b.definition(s.Fields, at+".fields")
	if err != nil {
		return nil, err
	}
	rec, err := zschema.NewRecord(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	b.records[name] = rec
	return rec, nil
}

func (b *builder) definition(fields map[string]*Field, at string) (zschema.Definition, error) {
	def := make(zschema.Definition, len(fields))
	for name, f := range fields {
		k, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		n, err := b.node(f, at+"."+name)
		if err != nil {
			return nil, err
		}
		def[k] = n
	}
	return def, nil
}

// node builds f, either from the factory table or from a declared type.
func (b *builder) node(f *Field, at string) (zschema.Node, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: %s: empty field", ErrDeclaration, at)
	}
	opts, err := fieldOptions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	if _, declared := b.file.Types[f.Type]; declared {
		return b.fromPreset(f, opts, at)
	}
	mk, ok := factories[f.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown type %q", ErrDeclaration, at, f.Type)
	}
	return mk(b, f, opts, at)
}

func (b *builder) fromPreset(f *Field, opts []zschema.Option, at string) (zschema.Node, error) {
	p, err := b.preset(f.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	if len(f.Fields) > 0 {
		return nil, fmt.Errorf("%w: %s: fields cannot be added to type %q", ErrDeclaration, at, f.Type)
	}
	if f.Of != nil {
		child, err := b.node(f.Of, at+".of")
		if err != nil {
			return nil, err
		}
		if p, err = p.Of(child); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
	}
	n, err := p.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return n, nil
}

// preset resolves a declared type, building it on first use.
func (b *builder) preset(name string) (*zschema.Preset, error) {
	if p, ok := b.presets[name]; ok {
		return p, nil
	}
	if b.resolving[name] {
		return nil, fmt.Errorf("%w: type %q refers to itself", ErrDeclaration, name)
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)

	f := b.file.Types[name]
	at := "types." + name
	opts, err := fieldOptions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	var p *zschema.Preset
	switch f.Type {
	case "ListOf", "NestedListOf":
		var child zschema.Node
		if f.Of != nil {
			if child, err = b.node(f.Of, at+".of"); err != nil {
				return nil, err
			}
		}
		if f.Type == "ListOf" {
			p = zschema.ListOfType(child, opts...)
		} else {
			p = zschema.NestedListOfType(child, f.SubrecordName, opts...)
		}
	case "SubRecord":
		def, err := b.definition(f.Fields, at+".fields")
		if err != nil {
			return nil, err
		}
		p = zschema.SubRecordType(def, opts...)
	default:
		if _, declared := b.file.Types[f.Type]; declared {
			base, err := b.preset(f.Type)
			if err != nil {
				return nil, err
			}
			p = base.With(opts...)
			break
		}
		k, ok := zschema.ParseLeafKind(f.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown type %q", ErrDeclaration, at, f.Type)
		}
		p = zschema.LeafType(k, opts...)
	}
	b.presets[name] = p
	return p, nil
}

func buildListOf(b *builder, f *Field, opts []zschema.Option, at string) (zschema.Node, error) {
	if f.Of == nil {
		return nil, fmt.Errorf("%w: %s: ListOf needs of", ErrDeclaration, at)
	}
	child, err := b.node(f.Of, at+".of")
	if err != nil {
		return nil, err
	}
	l, err := zschema.NewListOf(child, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return l, nil
}

func buildNestedListOf(b *builder, f *Field, opts []zschema.Option, at string) (zschema.Node, error) {
	if f.Of == nil {
		return nil, fmt.Errorf("%w: %s: NestedListOf needs of", ErrDeclaration, at)
	}
	child, err := b.node(f.Of, at+".of")
	if err != nil {
		return nil, err
	}
	l, err := zschema.NewNestedListOf(child, f.SubrecordName, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return l, nil
}

func buildSubRecord(b *builder, f *Field, opts []zschema.Option, at string) (zschema.Node, error) {
	def, err := b.definition(f.Fields, at+".fields")
	if err != nil {
		return nil, err
	}
	s, err := zschema.NewSubRecord(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return s, nil
}

// fieldOptions converts the attributes that are set. Unset attributes add no
// option so a declared type's defaults survive.
func fieldOptions(f *Field) ([]zschema.Option, error) {
	var opts []zschema.Option
	add := func(cond bool, o zschema.Option) {
		if cond {
			opts = append(opts, o)
		}
	}
	add(f.Required, zschema.Required(true))
	add(f.Doc != "", zschema.Doc(f.Doc))
	add(f.Desc != "", zschema.Desc(f.Desc))
	add(f.Category != "", zschema.Category(f.Category))
	add(len(f.Examples) > 0, zschema.Examples(f.Examples...))
	add(f.Deprecated, zschema.Deprecated(true))
	add(f.Units != "", zschema.Units(f.Units))
	add(f.MinValue != "", zschema.MinValue(f.MinValue))
	add(f.MaxValue != "", zschema.MaxValue(f.MaxValue))
	add(f.ProtoIndex > 0, zschema.ProtoIndex(f.ProtoIndex))
	add(f.ProtoIgnore, zschema.ProtoIgnore(true))
	add(f.ESIndex != "", zschema.ESIndex(f.ESIndex))
	add(f.ESAnalyzer != "", zschema.ESAnalyzer(f.ESAnalyzer))
	add(f.ESSearchAnalyzer != "", zschema.ESSearchAnalyzer(f.ESSearchAnalyzer))
	add(f.ESIncludeRaw != nil, zschema.ESIncludeRaw(f.ESIncludeRaw != nil && *f.ESIncludeRaw))
	add(len(f.Values) > 0, zschema.Values(f.Values...))
	add(f.MinItems > 0, zschema.MinItems(f.MinItems))
	add(f.MaxItems > 0, zschema.MaxItems(f.MaxItems))
	add(f.AllowUnknown, zschema.AllowUnknown(true))
	add(f.TypeName != "", zschema.TypeName(f.TypeName))
	add(f.ESNested, zschema.ESNested(true))

	if len(f.Exclude) > 0 {
		targets := make([]zschema.Target, 0, len(f.Exclude))
		for _, s := range f.Exclude {
			t, err := zschema.ParseTarget(s)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
		opts = append(opts, zschema.Exclude(targets...))
	}
	if f.ValidationPolicy != "" {
		p, err := zschema.ParsePolicy(f.ValidationPolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, zschema.ValidationPolicy(p))
	}
	return opts, nil
}

package zschema

import (
	"fmt"
	"slices"
)

// Attrs holds the resolved common attributes of a node.
type Attrs struct {
	Required    bool
	Doc         string
	Desc        string
	Category    string
	Examples    []string
	Exclude     Target
	Deprecated  bool
	Policy      Policy
	Units       string
	ProtoIndex  int // 0 when unset
	ProtoIgnore bool
}

func (a Attrs) clone() Attrs {
	a.Examples = slices.Clone(a.Examples)
	return a
}

// ESSettings are the Elasticsearch mapping parameters of a leaf.
type ESSettings struct {
	Index          string
	Analyzer       string
	SearchAnalyzer string
	IncludeRaw     bool
}

// Option configures a node when it is built. Options are applied in order on
// top of the node kind's defaults, so a preset's options come first and the
// call site's options override them. Options that do not apply to a node kind
// are ignored.
type Option func(*config)

type config struct {
	attrs Attrs
	es    ESSettings

	minValue, maxValue string
	values             []string

	minItems, maxItems int
	subrecordName      string

	allowUnknown    bool
	typeName        string
	esNested        bool
	extends         []Definer
	esDynamicPolicy string

	errs []error
}

func newConfig(base config, opts []Option) config {
	cfg := base
	cfg.attrs = base.attrs.clone()
	cfg.values = slices.Clone(base.values)
	cfg.extends = slices.Clone(base.extends)
	cfg.errs = nil
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

func (c *config) fail(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

// Required marks the field as required: a null value fails validation and
// BigQuery mode becomes REQUIRED.
func Required(v bool) Option { return func(c *config) { c.attrs.Required = v } }

// Doc sets the documentation text.
func Doc(s string) Option { return func(c *config) { c.attrs.Doc = s } }

// Desc sets the short description.
func Desc(s string) Option { return func(c *config) { c.attrs.Desc = s } }

// Category sets the documentation category inherited by descendants.
func Category(s string) Option { return func(c *config) { c.attrs.Category = s } }

// Examples replaces the example values.
func Examples(v ...string) Option {
	return func(c *config) { c.attrs.Examples = slices.Clone(v) }
}

// Exclude removes the node from the given output targets.
func Exclude(targets ...Target) Option {
	return func(c *config) {
		var t Target
		for _, x := range targets {
			t |= x
		}
		c.attrs.Exclude = t
	}
}

func Deprecated(v bool) Option { return func(c *config) { c.attrs.Deprecated = v } }

// ValidationPolicy sets the node's own policy.
func ValidationPolicy(p Policy) Option {
	return func(c *config) {
		if p < PolicyInherit || p > PolicyIgnore {
			c.fail("%w: %d", ErrInvalidPolicy, int(p))
			return
		}
		c.attrs.Policy = p
	}
}

func Units(s string) Option { return func(c *config) { c.attrs.Units = s } }

// ProtoIndex sets the explicit proto field number.
func ProtoIndex(n int) Option {
	return func(c *config) {
		if n < 1 {
			c.fail("proto index must be >= 1, got %d", n)
			return
		}
		c.attrs.ProtoIndex = n
	}
}

// ProtoIgnore leaves the field out of proto output.
func ProtoIgnore(v bool) Option { return func(c *config) { c.attrs.ProtoIgnore = v } }

// MinValue and MaxValue bound DateTime values. The text is parsed with the
// same rules as document values.
func MinValue(s string) Option { return func(c *config) { c.minValue = s } }
func MaxValue(s string) Option { return func(c *config) { c.maxValue = s } }

func ESIndex(s string) Option          { return func(c *config) { c.es.Index = s } }
func ESAnalyzer(s string) Option       { return func(c *config) { c.es.Analyzer = s } }
func ESSearchAnalyzer(s string) Option { return func(c *config) { c.es.SearchAnalyzer = s } }

// ESIncludeRaw adds a keyword "raw" sub-field to the mapping.
func ESIncludeRaw(v bool) Option { return func(c *config) { c.es.IncludeRaw = v } }

// Values sets the allowed values of an Enum. An empty set allows any string.
func Values(v ...string) Option { return func(c *config) { c.values = slices.Clone(v) } }

// MinItems and MaxItems bound list length; 0 means unbounded.
func MinItems(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.fail("min_items must be >= 0, got %d", n)
			return
		}
		c.minItems = n
	}
}

func MaxItems(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.fail("max_items must be >= 0, got %d", n)
			return
		}
		c.maxItems = n
	}
}

// SubrecordName names the wrapping record emitted for a NestedListOf.
func SubrecordName(s string) Option { return func(c *config) { c.subrecordName = s } }

// AllowUnknown tolerates document keys absent from the definition.
func AllowUnknown(v bool) Option { return func(c *config) { c.allowUnknown = v } }

// TypeName makes a SubRecord a named proto message emitted once at top level.
func TypeName(s string) Option { return func(c *config) { c.typeName = s } }

// ESNested maps the SubRecord as an Elasticsearch "nested" object.
func ESNested(v bool) Option { return func(c *config) { c.esNested = v } }

// Extends merges a deep copy of src's definition into the node under
// construction. Shared SubRecord keys merge recursively; any other shared key
// fails with a MergeConflictError.
func Extends(src Definer) Option {
	return func(c *config) {
		if src == nil {
			c.fail("extends: nil source")
			return
		}
		c.extends = append(c.extends, src)
	}
}

// ESDynamicPolicy sets the "dynamic" parameter of a Record's mapping.
func ESDynamicPolicy(s string) Option { return func(c *config) { c.esDynamicPolicy = s } }

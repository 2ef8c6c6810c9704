// Package decl reads schema declarations from YAML or JSON files and turns
// them into zschema nodes, and describes nodes back into declarations.
package decl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/zschema"
)

// File is a declaration file: reusable types and named schemas.
type File struct {
	Types   map[string]*Field  `yaml:"types,omitempty" json:"types,omitempty" validate:"omitempty,dive,required"`
	Schemas map[string]*Schema `yaml:"schemas" json:"schemas" validate:"required,min=1,dive,required"`
}

// Schema declares a Record.
type Schema struct {
	Doc              string            `yaml:"doc,omitempty" json:"doc,omitempty"`
	Desc             string            `yaml:"desc,omitempty" json:"desc,omitempty"`
	Category         string            `yaml:"category,omitempty" json:"category,omitempty"`
	ValidationPolicy string            `yaml:"validation_policy,omitempty" json:"validation_policy,omitempty" validate:"omitempty,oneof=inherit error warn warning ignore"`
	ESDynamicPolicy  string            `yaml:"es_dynamic_policy,omitempty" json:"es_dynamic_policy,omitempty" validate:"omitempty,oneof=true false strict runtime"`
	Extends          []string          `yaml:"extends,omitempty" json:"extends,omitempty" validate:"omitempty,dive,required"`
	Fields           map[string]*Field `yaml:"fields" json:"fields" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// Field declares one node. Type names a leaf kind, a compound (ListOf,
// NestedListOf, SubRecord) or an entry of File.Types.
type Field struct {
	Type             string            `yaml:"type" json:"type" validate:"required"`
	Required         bool              `yaml:"required,omitempty" json:"required,omitempty"`
	Doc              string            `yaml:"doc,omitempty" json:"doc,omitempty"`
	Desc             string            `yaml:"desc,omitempty" json:"desc,omitempty"`
	Category         string            `yaml:"category,omitempty" json:"category,omitempty"`
	Examples         []string          `yaml:"examples,omitempty" json:"examples,omitempty"`
	Exclude          []string          `yaml:"exclude,omitempty" json:"exclude,omitempty" validate:"omitempty,dive,oneof=bigquery elasticsearch"`
	Deprecated       bool              `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	ValidationPolicy string            `yaml:"validation_policy,omitempty" json:"validation_policy,omitempty" validate:"omitempty,oneof=inherit error warn warning ignore"`
	Units            string            `yaml:"units,omitempty" json:"units,omitempty"`
	MinValue         string            `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue         string            `yaml:"max_value,omitempty" json:"max_value,omitempty"`
	ProtoIndex       int               `yaml:"proto_index,omitempty" json:"proto_index,omitempty" validate:"gte=0"`
	ProtoIgnore      bool              `yaml:"proto_ignore,omitempty" json:"proto_ignore,omitempty"`
	ESIndex          string            `yaml:"es_index,omitempty" json:"es_index,omitempty"`
	ESAnalyzer       string            `yaml:"es_analyzer,omitempty" json:"es_analyzer,omitempty"`
	ESSearchAnalyzer string            `yaml:"es_search_analyzer,omitempty" json:"es_search_analyzer,omitempty"`
	ESIncludeRaw     *bool             `yaml:"es_include_raw,omitempty" json:"es_include_raw,omitempty"`
	Values           []string          `yaml:"values,omitempty" json:"values,omitempty"`
	Of               *Field            `yaml:"of,omitempty" json:"of,omitempty"`
	MinItems         int               `yaml:"min_items,omitempty" json:"min_items,omitempty" validate:"gte=0"`
	MaxItems         int               `yaml:"max_items,omitempty" json:"max_items,omitempty" validate:"gte=0"`
	SubrecordName    string            `yaml:"subrecord_name,omitempty" json:"subrecord_name,omitempty"`
	Fields           map[string]*Field `yaml:"fields,omitempty" json:"fields,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
	AllowUnknown     bool              `yaml:"allow_unknown,omitempty" json:"allow_unknown,omitempty"`
	TypeName         string            `yaml:"type_name,omitempty" json:"type_name,omitempty"`
	ESNested         bool              `yaml:"es_nested,omitempty" json:"es_nested,omitempty"`
}

const portPrefix = "port:"

// ParseKey maps a declaration key to a schema key. "port:443" is a Port.
func ParseKey(s string) (zschema.Key, error) {
	if rest, ok := strings.CutPrefix(s, portPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n > 65535 {
			return nil, fmt.Errorf("decl: invalid port key %q", s)
		}
		return zschema.Port(n), nil
	}
	return zschema.Name(s), nil
}

// FormatKey is the inverse of ParseKey.
func FormatKey(k zschema.Key) string {
	if p, ok := k.(zschema.Port); ok {
		return portPrefix + strconv.Itoa(int(p))
	}
	return k.String()
}

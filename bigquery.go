package zschema

// BigQueryField is one column of a BigQuery table schema.
type BigQueryField struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Mode   string          `json:"mode"`
	Fields []BigQueryField `json:"fields,omitempty"`
	Doc    string          `json:"doc,omitempty"`
}

// FlatField is one entry of a flattened field listing.
type FlatField struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ESType        string `json:"es_type,omitempty"`
	Mode          string `json:"mode"`
	Documentation string `json:"documentation,omitempty"`
}

// DocNode is a node of a documentation tree.
type DocNode struct {
	Category   string             `json:"category,omitempty"`
	Doc        string             `json:"doc,omitempty"`
	Desc       string             `json:"desc,omitempty"`
	Required   bool               `json:"required"`
	Type       string             `json:"type"`
	DetailType string             `json:"detail_type,omitempty"`
	Examples   []string           `json:"examples,omitempty"`
	Values     []string           `json:"values,omitempty"`
	Analyzer   string             `json:"analyzer,omitempty"`
	Repeated   bool               `json:"repeated,omitempty"`
	Fields     map[string]DocNode `json:"fields,omitempty"`
}

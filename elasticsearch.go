package zschema

import (
	json "github.com/goccy/go-json"
)

// ESMapping is an Elasticsearch mapping keyed by type name.
type ESMapping map[string]ESProperty

// ESProperty is the mapping of one field. Object fields carry Properties;
// leaves carry Type and the analysis parameters.
type ESProperty struct {
	Type           string
	Index          string
	Analyzer       string
	SearchAnalyzer string
	Fields         map[string]ESProperty
	Properties     map[string]ESProperty // non-nil for objects, even when empty
	Dynamic        string
}

// MarshalJSON emits only the parameters that are set, keeping "properties"
// for empty objects.
func (p ESProperty) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 4)
	if p.Type != "" {
		m["type"] = p.Type
	}
	if p.Index != "" {
		m["index"] = p.Index
	}
	if p.Analyzer != "" {
		m["analyzer"] = p.Analyzer
	}
	if p.SearchAnalyzer != "" {
		m["search_analyzer"] = p.SearchAnalyzer
	}
	if len(p.Fields) > 0 {
		m["fields"] = p.Fields
	}
	if p.Properties != nil {
		m["properties"] = p.Properties
	}
	if p.Dynamic != "" {
		m["dynamic"] = p.Dynamic
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the form MarshalJSON writes.
func (p *ESProperty) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type           string                `json:"type"`
		Index          string                `json:"index"`
		Analyzer       string                `json:"analyzer"`
		SearchAnalyzer string                `json:"search_analyzer"`
		Fields         map[string]ESProperty `json:"fields"`
		Properties     map[string]ESProperty `json:"properties"`
		Dynamic        string                `json:"dynamic"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = ESProperty(raw)
	return nil
}

package zschema

import (
	"sort"
	"strconv"
)

// Key names a field in a Definition. Plain text keys are Name values; other
// identifiers (Port) render differently per target.
type Key interface {
	// BigQueryKey renders the key as a BigQuery-safe column name. It is also
	// used for proto field names.
	BigQueryKey() string
	// ESKey renders the key as an Elasticsearch field name. Documents are
	// matched against definitions by this form.
	ESKey() string
	// String renders the key for display.
	String() string
}

// Name is a plain text key.
type Name string

func (n Name) BigQueryKey() string { return string(n) }
func (n Name) ESKey() string       { return string(n) }
func (n Name) String() string      { return string(n) }

// Port is a network port used as a key: "p443" for BigQuery (column names
// cannot start with a digit) and "443" everywhere else.
type Port int

func (p Port) BigQueryKey() string { return "p" + strconv.Itoa(int(p)) }
func (p Port) ESKey() string       { return strconv.Itoa(int(p)) }
func (p Port) String() string      { return strconv.Itoa(int(p)) }

// sortedKeys returns the keys of def ordered by their display form.
func sortedKeys(def Definition) []Key {
	keys := make([]Key, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

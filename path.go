package zschema

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside a document: string segments address object
// keys, int segments address list positions.
type Path []any

// Key returns a copy of p extended by an object key.
func (p Path) Key(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index returns a copy of p extended by a list position.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Pointer renders p as a JSON Pointer (RFC 6901).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			// escape '~' -> '~0', '/' -> '~1' per RFC6901
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1"))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprint(b, s)
		}
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }

// Package docsrc reads the documents the validate command checks. JSON
// streams are decoded token by token with go-json so nesting depth and
// duplicate keys are seen before a value is built; YAML streams go through
// yaml.Node for the same checks.
package docsrc

import (
	"errors"
	"fmt"

	"github.com/reoring/zschema"
)

// Kind is the kind of a streamed token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one lexical JSON token. Offset is the input offset after the token.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// DuplicatePolicy controls what happens when an object repeats a key.
type DuplicatePolicy int

const (
	DupError  DuplicatePolicy = iota // fail the document
	DupWarn                          // keep the last value and report it
	DupIgnore                        // keep the last value silently
)

// ParseDuplicatePolicy parses "error", "warn" or "ignore".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "error":
		return DupError, nil
	case "warn":
		return DupWarn, nil
	case "ignore":
		return DupIgnore, nil
	}
	return DupError, fmt.Errorf("docsrc: unknown duplicate policy %q", s)
}

var (
	ErrTooDeep      = errors.New("docsrc: document nesting too deep")
	ErrDuplicateKey = errors.New("docsrc: duplicate object key")
	ErrSyntax       = errors.New("docsrc: malformed document")
	ErrTooLarge     = errors.New("docsrc: document expands too many aliases")
)

// Duplicate records a repeated key. Path points at the object holding it.
type Duplicate struct {
	Path zschema.Path
	Key  string
	Line int // YAML only
}

func (d Duplicate) String() string {
	return fmt.Sprintf("key %q repeated at %s", d.Key, d.Path.Pointer())
}

// DuplicateKeyError is returned under DupError.
type DuplicateKeyError struct {
	Duplicate
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q at %s (line %d)", e.Key, e.Path.Pointer(), e.Line)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path.Pointer())
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// Options configure decoding.
type Options struct {
	MaxDepth   int // 0 means zschema.DefaultMaxDepth
	Duplicates DuplicatePolicy
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return zschema.DefaultMaxDepth
	}
	return o.MaxDepth
}

// Document is one decoded value with the duplicates that were tolerated.
type Document struct {
	Value      any
	Duplicates []Duplicate
	Index      int // position in the stream, from 0
}

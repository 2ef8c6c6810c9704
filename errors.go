package zschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeTooDeep       = "too_deep"
)

// Sentinel errors for schema-authoring faults. They are never subject to a
// validation policy.
var (
	ErrInvalidSchema      = errors.New("zschema: invalid schema")
	ErrInvalidName        = errors.New("zschema: invalid field name")
	ErrPositionalConflict = errors.New("zschema: conflicting positional argument")
	ErrProtoIndex         = errors.New("zschema: explicit field numbers required")
	ErrInvalidPolicy      = errors.New("zschema: invalid validation policy")
	ErrMergeConflict      = errors.New("zschema: merge conflict")
)

// SchemaError reports a fault in the schema itself, raised while building or
// compiling it.
type SchemaError struct {
	Op  string // constructor or compiler that failed, e.g. "subrecord", "proto"
	Key string // offending field name, when known
	Err error
	Msg string
}

func (e *SchemaError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Err.Error())
	if e.Op != "" {
		fmt.Fprintf(b, " (%s", e.Op)
		if e.Key != "" {
			fmt.Fprintf(b, " %q", e.Key)
		}
		b.WriteString(")")
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// MergeConflictError reports two definitions that cannot be combined.
type MergeConflictError struct {
	Key    string
	Left   string
	Right  string
	Reason string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("zschema: unable to merge %q (%s vs %s): %s", e.Key, e.Left, e.Right, e.Reason)
}

func (e *MergeConflictError) Is(target error) bool { return target == ErrMergeConflict }

// Issue represents a single validation entry.
type Issue struct {
	Path     Path // location of the offending value within the document
	Code     string
	Message  string
	Severity Severity // resolved from the policy of the node that raised it
	// Params carries structured parameters (e.g., {"max": 2, "got": 3}).
	Params map[string]any
}

func (it Issue) String() string {
	return fmt.Sprintf("%s %s at %s: %s", it.Severity, it.Code, it.Path.Pointer(), it.Message)
}

// Issues is the outcome of a validation run in traversal order. A non-empty
// Issues is the error returned by Validate.
type Issues []Issue

// summaryLimit bounds the issues spelled out by Issues.Error.
const summaryLimit = 3

func (it Issue) summary() string {
	return it.Path.Pointer() + ": " + it.Message + " (" + it.Code + ")"
}

// Error names the first issues by document path, then counts the rest.
func (iss Issues) Error() string {
	switch len(iss) {
	case 0:
		return ""
	case 1:
		return iss[0].summary()
	}
	parts := make([]string, 0, summaryLimit+1)
	for _, it := range iss[:min(len(iss), summaryLimit)] {
		parts = append(parts, it.summary())
	}
	if rest := len(iss) - summaryLimit; rest > 0 {
		parts = append(parts, fmt.Sprintf("%d more", rest))
	}
	return fmt.Sprintf("%d issues: %s", len(iss), strings.Join(parts, "; "))
}

// Where returns the issues matching keep, in order. The result is nil when
// nothing matches.
func (iss Issues) Where(keep func(Issue) bool) Issues {
	var out Issues
	for _, it := range iss {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Under returns the issues raised at p or below it.
func (iss Issues) Under(p Path) Issues {
	prefix := p.Pointer()
	return iss.Where(func(it Issue) bool {
		ptr := it.Path.Pointer()
		return prefix == "/" || ptr == prefix || strings.HasPrefix(ptr, prefix+"/")
	})
}

// AsIssues reports the Issues carried by err, if any.
func AsIssues(err error) (Issues, bool) {
	var iss Issues
	if err == nil || !errors.As(err, &iss) {
		return nil, false
	}
	return iss, true
}

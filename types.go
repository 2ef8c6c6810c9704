package zschema

import (
	"fmt"
	"strings"
)

// Severity expresses the severity level recorded on an Issue.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Policy controls how a validation failure at a node is surfaced.
// The zero value is PolicyInherit.
type Policy int

const (
	PolicyInherit Policy = iota // Take the policy of the enclosing node.
	PolicyError                 // Report the failure as an error.
	PolicyWarn                  // Log the failure and keep going.
	PolicyIgnore                // Record the failure silently.
)

func (p Policy) String() string {
	switch p {
	case PolicyInherit:
		return "inherit"
	case PolicyError:
		return "error"
	case PolicyWarn:
		return "warn"
	case PolicyIgnore:
		return "ignore"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// severity maps a concrete policy onto the severity of the issues it produces.
func (p Policy) severity() Severity {
	switch p {
	case PolicyWarn:
		return Warn
	case PolicyIgnore:
		return Ignore
	default:
		return Error
	}
}

func (p Policy) concrete() bool {
	return p == PolicyError || p == PolicyWarn || p == PolicyIgnore
}

// ParsePolicy parses the textual form used by declarations and the CLI.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inherit":
		return PolicyInherit, nil
	case "error":
		return PolicyError, nil
	case "warn", "warning":
		return PolicyWarn, nil
	case "ignore":
		return PolicyIgnore, nil
	}
	return PolicyInherit, &SchemaError{Op: "policy", Key: s, Err: ErrInvalidPolicy}
}

// Target identifies an output engine a node may be excluded from.
type Target uint8

const (
	TargetBigQuery Target = 1 << iota
	TargetElasticsearch
)

func (t Target) String() string {
	var parts []string
	if t&TargetBigQuery != 0 {
		parts = append(parts, "bigquery")
	}
	if t&TargetElasticsearch != 0 {
		parts = append(parts, "elasticsearch")
	}
	return strings.Join(parts, ",")
}

// ParseTarget parses "bigquery" or "elasticsearch".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bigquery":
		return TargetBigQuery, nil
	case "elasticsearch":
		return TargetElasticsearch, nil
	}
	return 0, &SchemaError{Op: "exclude", Key: s, Err: ErrInvalidSchema}
}

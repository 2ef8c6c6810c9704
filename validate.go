package zschema

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"strconv"

	"github.com/reoring/zschema/i18n"
)

// DefaultMaxDepth bounds document nesting during validation.
const DefaultMaxDepth = 512

// ValidateOption configures a single validation run.
type ValidateOption func(*runConfig)

type runConfig struct {
	policy            Policy
	explicit          bool
	logger            *slog.Logger
	failFast          bool
	maxDepth          int
	requiredNullFatal bool
}

// WithPolicy overrides the policy of every node for this run. Passing
// PolicyInherit is a configuration error.
func WithPolicy(p Policy) ValidateOption {
	return func(c *runConfig) { c.policy, c.explicit = p, true }
}

// WithLogger sets the logger that receives warn-level issues.
func WithLogger(l *slog.Logger) ValidateOption {
	return func(c *runConfig) { c.logger = l }
}

// FailFast stops the run at the first error-severity issue.
func FailFast() ValidateOption { return func(c *runConfig) { c.failFast = true } }

// WithMaxDepth bounds the nesting depth walked; deeper values produce a
// too_deep error.
func WithMaxDepth(n int) ValidateOption { return func(c *runConfig) { c.maxDepth = n } }

// RequiredNullFatal reports a null required field as an error regardless of
// the policy in effect at that field.
func RequiredNullFatal() ValidateOption {
	return func(c *runConfig) { c.requiredNullFatal = true }
}

func newRun(opts []ValidateOption) (*validation, error) {
	cfg := runConfig{maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	if cfg.explicit && !cfg.policy.concrete() {
		return nil, &SchemaError{Op: "validate", Key: cfg.policy.String(), Err: ErrInvalidPolicy, Msg: "run policy must be error, warn or ignore"}
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = DefaultMaxDepth
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &validation{runConfig: cfg}, nil
}

// Report collects the issues of one validation run in traversal order.
type Report struct {
	Issues Issues
}

// Err returns the error-severity issues as an Issues error, or nil.
func (r *Report) Err() error {
	errs := r.bySeverity(Error)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Warnings returns the issues downgraded to warnings.
func (r *Report) Warnings() Issues { return r.bySeverity(Warn) }

// Ignored returns the issues suppressed by an ignore policy.
func (r *Report) Ignored() Issues { return r.bySeverity(Ignore) }

// OK reports whether the run produced no error-severity issue.
func (r *Report) OK() bool { return len(r.bySeverity(Error)) == 0 }

func (r *Report) bySeverity(s Severity) Issues {
	return r.Issues.Where(func(it Issue) bool { return it.Severity == s })
}

// validation is the state of one run.
type validation struct {
	runConfig
	issues Issues
	stop   bool
	err    error
}

// effective resolves a node's policy: run override, else its own unless
// inherit, else the parent's.
func (v *validation) effective(own, parent Policy) Policy {
	if v.explicit {
		return v.policy
	}
	if own != PolicyInherit {
		return own
	}
	if parent == PolicyInherit {
		return PolicyError
	}
	return parent
}

func (v *validation) done() bool { return v.stop || v.err != nil }

func (v *validation) fault(err error) {
	if v.err == nil {
		v.err = err
	}
}

func (v *validation) add(p Policy, path Path, code string, data map[string]string) {
	v.addSeverity(p.severity(), path, code, data)
}

func (v *validation) requiredNull(p Policy, path Path) {
	sev := p.severity()
	if v.requiredNullFatal {
		sev = Error
	}
	v.addSeverity(sev, path, CodeRequired, nil)
}

func (v *validation) addSeverity(sev Severity, path Path, code string, data map[string]string) {
	it := Issue{
		Path:     slices.Clone(path),
		Code:     code,
		Message:  i18n.T(code, data),
		Severity: sev,
	}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, s := range data {
			it.Params[k] = s
		}
	}
	v.issues = append(v.issues, it)
	switch sev {
	case Warn:
		v.logger.LogAttrs(context.Background(), slog.LevelWarn, "validation warning",
			slog.String("path", it.Path.Pointer()),
			slog.String("code", it.Code),
			slog.String("message", it.Message))
	case Error:
		if v.failFast {
			v.stop = true
		}
	}
}

// tooDeep reports whether the members of the container at path would exceed
// the depth limit, recording the violation as an error.
func (v *validation) tooDeep(path Path) bool {
	if len(path) < v.maxDepth {
		return false
	}
	v.addSeverity(Error, path, CodeTooDeep, map[string]string{"max": strconv.Itoa(v.maxDepth)})
	return true
}

func (v *validation) report() *Report {
	return &Report{Issues: v.issues}
}

// CheckValue validates a value against a standalone node. The node's policy
// resolves against error when it is inherit.
func CheckValue(n Node, value any, opts ...ValidateOption) (*Report, error) {
	if n == nil {
		return nil, &SchemaError{Op: "validate", Err: ErrInvalidSchema, Msg: "nil node"}
	}
	if err := n.Err(); err != nil {
		return nil, err
	}
	v, err := newRun(opts)
	if err != nil {
		return nil, err
	}
	n.validate(v, nil, value, PolicyError, Path{})
	if v.err != nil {
		return nil, v.err
	}
	return v.report(), nil
}

// ValidateValue is CheckValue returning only the error-severity issues.
func ValidateValue(n Node, value any, opts ...ValidateOption) error {
	r, err := CheckValue(n, value, opts...)
	if err != nil {
		return err
	}
	return r.Err()
}

// asObject returns the string-keyed entries of a document object.
func asObject(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList returns the elements of a document array.
func asList(value any) ([]any, bool) {
	switch l := value.(type) {
	case []any:
		return l, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func typeIssue(expected string, value any) map[string]string {
	return map[string]string{"expected": expected, "got": typeName(value)}
}

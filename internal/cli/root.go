// Package cli implements the zschema command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/decl"
	"github.com/reoring/zschema/internal/config"
	"github.com/reoring/zschema/internal/logging"
)

type globalFlags struct {
	config     string
	indent     int
	policy     string
	jobs       int
	maxDepth   int
	duplicates string
	failFast   bool
	logLevel   string
	logFormat  string
}

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	flags  globalFlags
	cfg    *config.Config
	log    *slog.Logger
}

// Run executes the tool with args and returns the process exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCmd(in, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd creates the root command wired to the given streams.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "zschema",
		Short: "Compile and validate zschema declarations",
		Long: `zschema reads schema declarations (YAML or JSON) and compiles them to
BigQuery, Elasticsearch and protobuf definitions, or validates documents
against them.

Schemas are addressed as FILE:NAME. NAME may be omitted when FILE declares a
single schema.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "JSON config file (default "+config.DefaultFile+" when present)")
	pf.IntVar(&a.flags.indent, "indent", 2, "JSON indent width; 0 prints compact JSON")
	pf.StringVar(&a.flags.policy, "policy", "", "override every validation policy (error, warn, ignore)")
	pf.IntVarP(&a.flags.jobs, "jobs", "j", 4, "documents validated concurrently")
	pf.IntVar(&a.flags.maxDepth, "max-depth", zschema.DefaultMaxDepth, "maximum document nesting")
	pf.StringVar(&a.flags.duplicates, "duplicates", "error", "duplicate object keys (error, warn, ignore)")
	pf.BoolVar(&a.flags.failFast, "fail-fast", false, "stop each document at its first error")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "log format (text, json)")

	registerCompileCmds(root, a)
	registerDescribeCmd(root, a)
	registerTextCmd(root, a)
	registerListCmd(root, a)
	registerTypesCmd(root, a)
	registerValidateCmd(root, a)

	return root
}

// setup loads the configuration; flags set on the command line win over the
// file and the environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	overrides := map[string]any{}
	set := func(flag, key string, v any) {
		if cmd.Flags().Changed(flag) {
			overrides[key] = v
		}
	}
	set("indent", "indent", a.flags.indent)
	set("policy", "policy", a.flags.policy)
	set("jobs", "jobs", a.flags.jobs)
	set("max-depth", "max_depth", a.flags.maxDepth)
	set("duplicates", "duplicates", a.flags.duplicates)
	set("fail-fast", "fail_fast", a.flags.failFast)
	set("log-level", "log_level", a.flags.logLevel)
	set("log-format", "log_format", a.flags.logFormat)

	cfg, err := config.Load(a.flags.config, overrides)
	if err != nil {
		return err
	}
	log, err := logging.New(a.errOut, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// splitRef separates FILE:NAME at the last colon.
func splitRef(ref string) (path, name string) {
	if i := strings.LastIndexByte(ref, ':'); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// schema loads the declaration named by ref and returns the selected record.
func (a *app) schema(ref string) (string, *zschema.Record, error) {
	path, name := splitRef(ref)
	f, err := decl.Load(path)
	if err != nil {
		return "", nil, err
	}
	reg, err := decl.Build(f)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		names := reg.Names()
		if len(names) != 1 {
			return "", nil, fmt.Errorf("%s declares %d schemas (%s); use %s:NAME",
				path, len(names), strings.Join(names, ", "), path)
		}
		name = names[0]
	}
	rec, err := reg.Get(name)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug("schema loaded", slog.String("file", path), slog.String("schema", name), slog.Int("declared", reg.Len()))
	return name, rec, nil
}

func (a *app) writeJSON(v any) error {
	var (
		b   []byte
		err error
	)
	if indent := a.cfg.IndentString(); indent != "" {
		b, err = json.MarshalIndent(v, "", indent)
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = a.out.Write(append(b, '\n'))
	return err
}

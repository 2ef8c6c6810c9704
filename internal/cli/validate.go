package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/internal/docsrc"
)

type validateOptions struct {
	format string // auto, json or yaml
}

func registerValidateCmd(parent *cobra.Command, a *app) {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate FILE[:NAME] [DOCUMENTS...]",
		Short: "Validate JSON or YAML documents against a schema",
		Long: `Validate reads a stream of documents from each DOCUMENTS file, or from
standard input when none is given or the name is "-". JSON input may hold any
number of concatenated values, one per line being the usual layout; YAML input
is split on "---".

Every error is printed as SOURCE:INDEX: ISSUE. Warnings go to the log. The
command fails when any document is invalid.`,
		Example: `  # Validate JSON lines read from stdin
  zcat hosts.json.gz | zschema validate schemas.yaml:host

  # Downgrade every failure to a warning
  zschema validate --policy warn schemas.yaml:host hosts.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.Context(), args[0], args[1:], opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "auto", "Document format (auto, json, yaml)")
	parent.AddCommand(cmd)
}

func (a *app) runValidate(ctx context.Context, ref string, inputs []string, opts *validateOptions) error {
	name, rec, err := a.schema(ref)
	if err != nil {
		return err
	}
	dup, err := docsrc.ParseDuplicatePolicy(a.cfg.Duplicates)
	if err != nil {
		return err
	}
	vopts := []zschema.ValidateOption{
		zschema.WithLogger(a.log),
		zschema.WithMaxDepth(a.cfg.MaxDepth),
	}
	p, ok, err := a.cfg.RunPolicy()
	if err != nil {
		return err
	}
	if ok {
		vopts = append(vopts, zschema.WithPolicy(p))
	}
	if a.cfg.FailFast {
		vopts = append(vopts, zschema.FailFast())
	}

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	var total, invalid int
	for _, in := range inputs {
		f, err := streamFormat(in, opts.format)
		if err != nil {
			return err
		}
		src := &source{
			name:   in,
			format: f,
			opts:   docsrc.Options{MaxDepth: a.cfg.MaxDepth, Duplicates: dup},
		}
		n, bad, err := a.validateSource(ctx, rec, src, vopts)
		total += n
		invalid += bad
		if err != nil {
			return err
		}
	}

	a.log.Info("validation finished",
		slog.String("schema", name),
		slog.Int("documents", total),
		slog.Int("invalid", invalid))
	if invalid > 0 {
		return fmt.Errorf("%d of %d documents failed validation", invalid, total)
	}
	return nil
}

func streamFormat(name, flag string) (docsrc.Format, error) {
	switch flag {
	case "auto", "":
		return docsrc.FormatFor(name), nil
	case "json":
		return docsrc.FormatJSON, nil
	case "yaml":
		return docsrc.FormatYAML, nil
	}
	return docsrc.FormatJSON, fmt.Errorf("unknown document format %q", flag)
}

type source struct {
	name   string
	format docsrc.Format
	opts   docsrc.Options
}

func (a *app) open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(a.in), nil
	}
	return os.Open(name)
}

// pending is a document in flight. done closes once report is set or the run
// was abandoned.
type pending struct {
	doc    docsrc.Document
	report *zschema.Report
	done   chan struct{}
}

// validateSource checks the documents of one stream, at most cfg.Jobs at a
// time, and prints the errors in stream order as soon as every earlier
// document is reported. Only a window of about cfg.Jobs documents is held at
// once. A document that cannot be decoded ends the stream and counts as
// invalid.
func (a *app) validateSource(ctx context.Context, rec *zschema.Record, src *source, vopts []zschema.ValidateOption) (total, invalid int, err error) {
	r, err := a.open(src.name)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Jobs + 1) // the reader holds one slot
	queue := make(chan *pending, a.cfg.Jobs)
	reader := docsrc.NewReader(r, src.format, src.opts)

	var readErr error
	g.Go(func() error {
		defer close(queue)
		for gctx.Err() == nil {
			doc, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				readErr = err
				return nil
			}
			p := &pending{doc: doc, done: make(chan struct{})}
			select {
			case queue <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
			g.Go(func() error {
				defer close(p.done)
				if gctx.Err() != nil {
					return nil
				}
				report, err := rec.Check(p.doc.Value, vopts...)
				if err != nil {
					return err
				}
				p.report = report
				return nil
			})
		}
		return gctx.Err()
	})

	for p := range queue {
		<-p.done
		if p.report == nil {
			continue
		}
		total++
		if !a.report(src.name, p) {
			invalid++
		}
	}
	if err := g.Wait(); err != nil {
		return total, invalid, err
	}
	if err := ctx.Err(); err != nil {
		return total, invalid, err
	}
	if readErr != nil {
		total++
		invalid++
		fmt.Fprintf(a.out, "%s: %v\n", src.name, readErr)
	}
	return total, invalid, nil
}

// report prints the errors of one checked document and logs its duplicate
// keys. It returns whether the document is valid.
func (a *app) report(source string, p *pending) bool {
	for _, d := range p.doc.Duplicates {
		a.log.Warn("duplicate key",
			slog.String("source", source),
			slog.Int("document", p.doc.Index),
			slog.String("path", d.Path.Pointer()),
			slog.String("key", d.Key))
	}
	if p.report.OK() {
		return true
	}
	for _, it := range p.report.Issues {
		if it.Severity == zschema.Error {
			fmt.Fprintf(a.out, "%s:%d: %s\n", source, p.doc.Index, it)
		}
	}
	return false
}

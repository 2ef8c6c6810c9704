package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/decl"
	"github.com/reoring/zschema/internal/render"
)

// compileCmd is a command printing one rendition of a schema.
type compileCmd struct {
	use, short string
	aliases    []string
	run        func(a *app, name string, rec *zschema.Record) error
}

var compileCmds = []compileCmd{
	{
		use:   "bigquery",
		short: "Print the BigQuery table schema",
		run: func(a *app, _ string, rec *zschema.Record) error {
			fields, err := rec.BigQuery()
			if err != nil {
				return err
			}
			return a.writeJSON(fields)
		},
	},
	{
		use:     "elasticsearch",
		short:   "Print the Elasticsearch mapping",
		aliases: []string{"es"},
		run: func(a *app, name string, rec *zschema.Record) error {
			return a.writeJSON(rec.Elasticsearch(name))
		},
	},
	{
		use:   "proto",
		short: "Print the protobuf message definitions",
		run: func(a *app, name string, rec *zschema.Record) error {
			s, err := rec.Proto(name)
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.out, s)
			return err
		},
	},
	{
		use:   "flat",
		short: "Print every field as a dotted path",
		run: func(a *app, _ string, rec *zschema.Record) error {
			fields := []zschema.FlatField{}
			for f, err := range rec.Flat() {
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}
			return a.writeJSON(fields)
		},
	},
	{
		use:   "docs-es",
		short: "Print the documentation tree with Elasticsearch types",
		run: func(a *app, name string, rec *zschema.Record) error {
			return a.writeJSON(rec.DocsES(name))
		},
	},
	{
		use:   "docs-bq",
		short: "Print the documentation tree with BigQuery types",
		run: func(a *app, name string, rec *zschema.Record) error {
			return a.writeJSON(rec.DocsBQ(name))
		},
	},
}

func registerCompileCmds(parent *cobra.Command, a *app) {
	for _, c := range compileCmds {
		parent.AddCommand(&cobra.Command{
			Use:     c.use + " FILE[:NAME]",
			Short:   c.short,
			Aliases: c.aliases,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, rec, err := a.schema(args[0])
				if err != nil {
					return err
				}
				return c.run(a, name, rec)
			},
		})
	}
}

type describeOptions struct {
	output string
}

func registerDescribeCmd(parent *cobra.Command, a *app) {
	opts := &describeOptions{}
	cmd := &cobra.Command{
		Use:     "describe FILE[:NAME]",
		Short:   "Print the schema as a normalized declaration",
		Aliases: []string{"json"},
		Example: `  # JSON declaration of the host schema
  zschema describe schemas.yaml:host

  # Same, as YAML
  zschema describe schemas.yaml:host -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, rec, err := a.schema(args[0])
			if err != nil {
				return err
			}
			s, err := decl.DescribeRecord(rec)
			if err != nil {
				return err
			}
			f := &decl.File{Schemas: map[string]*decl.Schema{name: s}}

			format := decl.JSON
			switch opts.output {
			case "json":
			case "yaml":
				format = decl.YAML
			default:
				return fmt.Errorf("unknown output format %q", opts.output)
			}
			b, err := decl.Marshal(f, format, a.cfg.IndentString())
			if err != nil {
				return err
			}
			if format == decl.JSON {
				b = append(b, '\n')
			}
			_, err = a.out.Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "Output format (json, yaml)")
	parent.AddCommand(cmd)
}

type textOptions struct {
	engine string
	color  bool
}

func registerTextCmd(parent *cobra.Command, a *app) {
	opts := &textOptions{}
	cmd := &cobra.Command{
		Use:   "text FILE[:NAME]",
		Short: "Print the documentation tree for terminals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, rec, err := a.schema(args[0])
			if err != nil {
				return err
			}
			var docs map[string]zschema.DocNode
			switch opts.engine {
			case "es", "elasticsearch":
				docs = rec.DocsES(name)
			case "bq", "bigquery":
				docs = rec.DocsBQ(name)
			default:
				return fmt.Errorf("unknown engine %q", opts.engine)
			}
			_, err = fmt.Fprintln(a.out, render.Text(docs, render.Options{Color: opts.color}))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.engine, "engine", "es", "Type names to show (es, bq)")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Colorize the output")
	parent.AddCommand(cmd)
}

func registerListCmd(parent *cobra.Command, a *app) {
	parent.AddCommand(&cobra.Command{
		Use:   "list FILE",
		Short: "List the schemas a declaration file defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := decl.Load(args[0])
			if err != nil {
				return err
			}
			reg, err := decl.Build(f)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	})
}

func registerTypesCmd(parent *cobra.Command, a *app) {
	parent.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List the type names usable in declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range decl.Tags() {
				fmt.Fprintln(a.out, t)
			}
			return nil
		},
	})
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/propkit/internal/registry"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
	Class    string
}

// PropertyReport describes one resolved property.
type PropertyReport struct {
	Name        string   `json:"name"`
	Access      string   `json:"access"`
	Types       []string `json:"types,omitempty"`
	Description string   `json:"description,omitempty"`
	Lazy        bool     `json:"lazy,omitempty"`
	DeclaredIn  string   `json:"declared_in"`
	Decl        string   `json:"-"` // declaration form for text output
}

// ClassReport describes one resolved class.
type ClassReport struct {
	Name       string           `json:"name"`
	Extends    string           `json:"extends,omitempty"`
	Properties []PropertyReport `json:"properties"`
}

// DiagnosticReport is one advisory finding.
type DiagnosticReport struct {
	Kind     string `json:"kind"`
	Class    string `json:"class"`
	Level    string `json:"declared_in,omitempty"`
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
	Text     string `json:"-"`
}

// InspectResult is the inspect command's payload.
type InspectResult struct {
	Classes     []ClassReport      `json:"classes"`
	Diagnostics []DiagnosticReport `json:"diagnostics"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [schema]",
		Short: "Resolve classes and print their properties",
		Long: `Resolve every class of a schema and print its merged properties,
ancestors first, followed by merge diagnostics.

Example:
  propkit inspect ./people.yaml
  propkit inspect --db ./catalog.db --class Employee`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runInspect(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read classes from a SQLite catalog")
	cmd.Flags().StringVar(&opts.Class, "class", "", "inspect a single class")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	src, err := openSource(cmd.Context(), path, opts.Database)
	if err != nil {
		return fail(f, ExitCommandError, "", "failed to load schema", err)
	}
	defer src.Close()

	classes := src.Schema.Classes()
	if opts.Class != "" {
		c, ok := src.Schema.Class(opts.Class)
		if !ok {
			return fail(f, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("class %q not found", opts.Class), nil)
		}
		classes = []*registry.Class{c}
	}

	rec := &registry.Recorder{}
	reg := newRegistry(src, rec, logger)

	result := InspectResult{Classes: []ClassReport{}, Diagnostics: []DiagnosticReport{}}
	for _, c := range classes {
		f.VerboseLog("Resolving class: %s", c.Name)
		specs, err := reg.Resolve(c)
		if err != nil {
			return fail(f, ExitCommandError, ErrCodeResolve, fmt.Sprintf("failed to resolve class %q", c.Name), err)
		}
		result.Classes = append(result.Classes, classReport(specs))
	}
	for _, d := range rec.Diagnostics() {
		result.Diagnostics = append(result.Diagnostics, DiagnosticReport{
			Kind:     string(d.Kind),
			Class:    d.Class,
			Level:    d.Level,
			Property: d.Property,
			Message:  d.Message,
			Text:     d.String(),
		})
	}

	return f.Render("ok", result, func(w io.Writer) error {
		return writeInspectText(w, result)
	})
}

func classReport(specs *registry.Specs) ClassReport {
	c := specs.Class()
	report := ClassReport{Name: c.Name, Properties: []PropertyReport{}}
	if c.Parent != nil {
		report.Extends = c.Parent.Name
	}
	for _, name := range specs.Names() {
		ps, _ := specs.Lookup(name)
		report.Properties = append(report.Properties, PropertyReport{
			Name:        ps.Name(),
			Access:      ps.Access().String(),
			Types:       ps.TypeStrings(),
			Description: ps.Description(),
			Lazy:        ps.Lazy(),
			DeclaredIn:  specs.DeclaredIn(name),
			Decl:        ps.String(),
		})
	}
	return report
}

func writeInspectText(w io.Writer, result InspectResult) error {
	for i, c := range result.Classes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if c.Extends != "" {
			fmt.Fprintf(w, "class %s extends %s\n", c.Name, c.Extends)
		} else {
			fmt.Fprintf(w, "class %s\n", c.Name)
		}
		if len(c.Properties) == 0 {
			fmt.Fprintln(w, "  (no properties)")
		}
		for _, p := range c.Properties {
			line := "  " + p.Decl
			if p.Lazy {
				line += " [lazy]"
			}
			if p.DeclaredIn != c.Name {
				line += " (from " + p.DeclaredIn + ")"
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	if len(result.Diagnostics) == 0 {
		_, err := fmt.Fprintln(w, "diagnostics: none")
		return err
	}
	fmt.Fprintln(w, "diagnostics:")
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d.Text)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/propkit/internal/catalog"
	"github.com/roach88/propkit/internal/schema"
)

// CatalogOptions holds flags for the catalog commands.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// ImportReport is the catalog import payload.
type ImportReport struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Database string `json:"database"`
	Classes  int    `json:"classes"`
	Changed  int    `json:"changed"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage a SQLite class catalog",
		Long: `A catalog stores class declarations in SQLite. Other commands read it
with --db instead of a schema file.`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "catalog database path (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newCatalogImportCommand(opts))
	return cmd
}

func newCatalogImportCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <schema>",
		Short: "Import a schema into the catalog",
		Long: `Validate a schema and write its classes into the catalog. Classes whose
declaration is unchanged are skipped.

Example:
  propkit catalog import ./people.yaml --db ./catalog.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(opts, args[0], cmd)
		},
	}
}

func runCatalogImport(opts *CatalogOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := schema.Load(path)
	if err != nil {
		return fail(f, ExitCommandError, "", "failed to load schema", err)
	}
	f.VerboseLog("Loaded %d classes from %s", len(s.Names()), path)

	cat, err := catalog.Open(opts.Database)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeCatalog, "failed to open catalog", err)
	}
	defer cat.Close()

	res, err := cat.Import(cmd.Context(), s, path)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeCatalog, "failed to import schema", err)
	}

	report := ImportReport{
		ID:       res.ID,
		Source:   path,
		Database: opts.Database,
		Classes:  res.Classes,
		Changed:  res.Changed,
	}
	return f.Render("ok", report, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "imported %d classes into %s (%d changed)\n", report.Classes, report.Database, report.Changed)
		return err
	})
}

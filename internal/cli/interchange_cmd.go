package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every project and task as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" || out == "-" {
				return app.Interchange.Export(cmd.Context(), cmd.OutOrStdout())
			}
			var buf bytes.Buffer
			if err := app.Interchange.Export(cmd.Context(), &buf); err != nil {
				return err
			}
			if err := atomic.WriteFile(out, &buf); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			printf(cmd, "Exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load projects from CSV (FILE of - reads stdin)",
		Long: "Load projects from a CSV export. By default the board is replaced;\n" +
			"with --merge imported projects are added alongside existing ones.\n" +
			"Rows that cannot be read are skipped and reported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			summary, err := app.Interchange.Import(cmd.Context(), r, merge)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatImportSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Add to the board instead of replacing it")
	return cmd
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/ingest"
	"github.com/Chandru1806/MCA/internal/models"
)

func newIngestCmd(opts *options) *cobra.Command {
	var (
		bank      string
		outputDir string
		workbook  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <statement.pdf> [statement2.pdf ...]",
		Short: "Detect, parse and standardize statements",
		Long: `Process each statement into a standardized CSV and a reject CSV.
All files of one invocation share a batch identifier that prefixes
their output names.

A .txt input is read as pre-extracted page text, pages separated by
a ---PAGE_BREAK--- line.

Supported banks (auto-detected if omitted):
  hdfc, kotak, sbi, icici; anything else uses the generic layout`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = opts.cfg.Statement.OutputDir
			}
			p := ingest.New(outputDir, opts.cfg.Statement.Workers)
			p.Workbook = workbook || opts.cfg.Statement.Workbook

			hint := models.ParseBankType(bank)
			sources := make([]ingest.Source, 0, len(args))
			for _, path := range args {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("input file not found: %s", path)
				}
				sources = append(sources, sourceFor(path, hint))
			}

			batch, outs, err := p.RunBatch(cmd.Context(), sources)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Batch %s\n", batch)
			for _, o := range outs {
				q := o.Quality()
				fmt.Fprintf(w, "  %s [%s]: %d standardized, %d rejected (%.1f%%)\n",
					o.Name, o.Bank, q.Standardized, q.Rejected, q.RejectRate())
				fmt.Fprintf(w, "    %s\n    %s\n", o.StandardizedPath, o.RejectsPath)
				if o.WorkbookPath != "" {
					fmt.Fprintf(w, "    %s\n", o.WorkbookPath)
				}
				if o.Err != nil {
					fmt.Fprintf(w, "    parser failed: %v\n", o.Err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank type: hdfc, kotak, sbi, icici (auto-detected if omitted)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default STATEMENT_OUTPUT_DIR)")
	cmd.Flags().BoolVar(&workbook, "xlsx", false, "also write an XLSX workbook per statement")
	return cmd
}

func sourceFor(path string, hint models.BankType) ingest.Source {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return ingest.Source{
			Name: path,
			Bank: hint,
			Open: func() (extractor.Document, error) {
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				return extractor.FromExtractedText(string(data)), nil
			},
		}
	}
	return ingest.FileSource(path, hint)
}

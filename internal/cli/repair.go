package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Chandru1806/MCA/internal/logger"
	"github.com/Chandru1806/MCA/internal/repair"
)

func newRepairCmd(opts *options) *cobra.Command {
	var (
		bank         string
		fillBalances bool
	)

	cmd := &cobra.Command{
		Use:   "repair <table.csv> [table2.csv ...]",
		Short: "Rebuild collapsed reject tables or fill amount gaps",
		Long: `By default each argument is a reject table whose first row holds every
transaction in newline-separated cells; the rows are rebuilt and written
beside it with __REJECTS_ replaced by __RECOVERED_. Tables without that
shape are skipped.

With --fill-balances each argument is a standardized table instead, and
rows with no amounts and no balance get their amount inferred from the
neighbouring balances.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.FromContext(cmd.Context())
			w := cmd.OutOrStdout()

			for _, path := range args {
				if fillBalances {
					out, n, err := repair.FillFile(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s: filled %d row(s) -> %s\n", path, n, out)
					continue
				}

				out, rows, err := repair.RepairFile(path, bank)
				if errors.Is(err, repair.ErrNotRepairable) {
					log.Warn().Err(err).Str("file", path).Msg("repair declined")
					fmt.Fprintf(w, "%s: not repairable\n", path)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: recovered %d row(s) -> %s\n", path, len(rows), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank tag for recovered rows (default UNKNOWN)")
	cmd.Flags().BoolVar(&fillBalances, "fill-balances", false, "fill amount gaps of standardized tables from balances")
	return cmd
}

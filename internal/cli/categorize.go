package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/store"
	"github.com/Chandru1806/MCA/internal/writer"
)

func newCategorizeCmd(opts *options) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "categorize <standardized.csv> [more.csv ...]",
		Short: "Assign a spending category to every transaction",
		Long: `Categorize standardized tables. Each table is written back with
Category and Confidence columns as <name>_categorized.csv.

With --persist the predictions are also stored in STATEMENT_DB_PATH under
the table's base name; a statement that was already categorized is
refused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cls, err := newClassifier(ctx, opts.cfg.Category)
			if err != nil {
				return err
			}

			var predictions categorizer.PredictionStore
			if persist {
				db, err := store.New(opts.cfg.Statement.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				predictions = db
			}
			svc := categorizer.NewService(cls, predictions, nil, opts.cfg.Statement.Workers)

			w := cmd.OutOrStdout()
			for _, path := range args {
				txns, err := writer.ReadTransactionsFile(path)
				if err != nil {
					return err
				}
				var rows []models.CategorizedTransaction
				if persist {
					preds, err := svc.CategorizeStatement(ctx, writer.BaseName(path), txns)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					rows = make([]models.CategorizedTransaction, len(txns))
					for i, t := range txns {
						rows[i] = models.Categorized(t, preds[i])
					}
				} else {
					rows = svc.CategorizeRows(ctx, txns)
				}
				out := writer.CategorizedPath(path)
				if err := writer.WriteCSVFile(out, rows); err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d transaction(s) -> %s\n", path, len(txns), out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "store predictions in the SQLite database")
	return cmd
}

// Package cli provides the statement pipeline's commands.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Chandru1806/MCA/internal/config"
	"github.com/Chandru1806/MCA/internal/logger"
)

// options are the global flags shared by every command.
type options struct {
	envFile string
	debug   bool

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "statements",
		Short: "Convert bank statement PDFs into a clean transaction table",
		Long: `statements turns Indian bank statement PDFs (HDFC, Kotak, SBI, ICICI
and a generic fallback) into a standardized transaction CSV plus a
reject table, repairs collapsed extractions and categorizes
transactions.

Example:
  statements ingest --bank hdfc april.pdf may.pdf
  statements repair output/1a2b3c4d_april__REJECTS_HDFC.csv
  statements categorize output/1a2b3c4d_april__STD_HDFC.csv
  statements serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if opts.debug {
				cfg.Log.Level = "debug"
			}
			opts.cfg = cfg
			opts.log = logger.Configure(cfg.Log.Level, cfg.Log.Format)
			cmd.SetContext(logger.WithContext(cmd.Context(), opts.log))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file (default is .env when present)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(newIngestCmd(opts))
	root.AddCommand(newRepairCmd(opts))
	root.AddCommand(newCategorizeCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// Command statements converts bank statement PDFs into standardized
// transaction tables, repairs collapsed extractions and categorizes
// transactions.
package main

import (
	"os"

	"github.com/Chandru1806/MCA/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

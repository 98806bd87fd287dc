// Package repair recovers statements whose reject table is the one known
// degenerate extraction: every column collapsed into a single multi-line
// cell. It also fills amount gaps from surrounding balances.
package repair

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/writer"
)

// ErrNotRepairable is returned when the reject table does not have the
// collapsed multi-line shape. No rows are produced in that case.
var ErrNotRepairable = errors.New("reject table is not repairable")

// column is one of the five value columns with the reject-table alias
// accepted in its place.
type column struct {
	name  string
	alias string
}

var valueColumns = []column{
	{"Transaction_Date", "Raw_Date"},
	{"Description", "Raw_Narration"},
	{"Debit_Amount", "Raw_Debit"},
	{"Credit_Amount", "Raw_Credit"},
	{"Balance", "Raw_Balance"},
}

// Repair rebuilds row-aligned transactions from the first record of a
// collapsed reject table. Each value column of that record must contain
// a newline; the columns are split independently and zipped back together,
// shorter ones padded with empty values.
func Repair(records []map[string]string, bank string) ([]models.RecoveredRow, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(ErrNotRepairable, "empty table")
	}
	first := records[0]

	cols := make([][]string, len(valueColumns))
	n := 0
	for i, c := range valueColumns {
		cell, ok := lookup(first, c)
		if !ok {
			return nil, errors.Wrapf(ErrNotRepairable, "missing column %s", c.name)
		}
		if !strings.Contains(cell, "\n") {
			return nil, errors.Wrapf(ErrNotRepairable, "column %s is not multi-line", c.name)
		}
		cols[i] = strings.Split(strings.ReplaceAll(cell, "\r\n", "\n"), "\n")
		n = max(n, len(cols[i]))
	}

	bank = strings.ToUpper(strings.TrimSpace(bank))
	if bank == "" {
		bank = string(models.BankUnknown)
	}
	out := make([]models.RecoveredRow, n)
	for i := range out {
		out[i] = models.RecoveredRow{
			CanonicalTransaction: models.CanonicalTransaction{
				TransactionID:   fmt.Sprintf("%s_R_%05d", bank, i+1),
				TransactionDate: at(cols[0], i),
				Description:     at(cols[1], i),
				DebitAmount:     at(cols[2], i),
				CreditAmount:    at(cols[3], i),
				Balance:         at(cols[4], i),
				BankName:        bank,
			},
			Provenance: models.ProvenanceRepair,
		}
	}
	return out, nil
}

// RepairFile repairs the reject table at path and writes the recovered
// table next to it. It returns the output path.
func RepairFile(path, bank string) (string, []models.RecoveredRow, error) {
	records, err := writer.ReadCSVMapsFile(path)
	if err != nil {
		return "", nil, err
	}
	rows, err := Repair(records, bank)
	if err != nil {
		return "", nil, err
	}
	out := writer.RecoveredPath(path)
	if err := writer.WriteCSVFile(out, rows); err != nil {
		return "", nil, err
	}
	return out, rows, nil
}

func lookup(record map[string]string, c column) (string, bool) {
	if v, ok := record[c.name]; ok {
		return v, true
	}
	v, ok := record[c.alias]
	return v, ok
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

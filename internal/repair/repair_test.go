package repair

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/writer"
)

func collapsed(n int) map[string]string {
	var dates, descs, debits, credits, balances []string
	for i := 1; i <= n; i++ {
		dates = append(dates, fmt.Sprintf("%02d/04/2023", i))
		descs = append(descs, fmt.Sprintf("TXN %d", i))
		debits = append(debits, fmt.Sprintf("%d.00", i))
		credits = append(credits, "")
		balances = append(balances, fmt.Sprintf("%d.00", 1000-i))
	}
	return map[string]string{
		"Transaction_Date": strings.Join(dates, "\n"),
		"Description":      strings.Join(descs, "\n"),
		"Debit_Amount":     strings.Join(debits, "\n"),
		"Credit_Amount":    strings.Join(credits, "\n"),
		"Balance":          strings.Join(balances, "\n"),
	}
}

func TestRepair_ReconstructsRowsInOrder(t *testing.T) {
	for _, n := range []int{2, 5, 17} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			rows, err := Repair([]map[string]string{collapsed(n)}, "hdfc")
			require.NoError(t, err)
			require.Len(t, rows, n)
			for i, r := range rows {
				assert.Equal(t, fmt.Sprintf("HDFC_R_%05d", i+1), r.TransactionID)
				assert.Equal(t, fmt.Sprintf("%02d/04/2023", i+1), r.TransactionDate)
				assert.Equal(t, fmt.Sprintf("TXN %d", i+1), r.Description)
				assert.Equal(t, fmt.Sprintf("%d.00", i+1), r.DebitAmount)
				assert.Equal(t, "", r.CreditAmount)
				assert.Equal(t, fmt.Sprintf("%d.00", 1000-i-1), r.Balance)
				assert.Equal(t, "HDFC", r.BankName)
				assert.Equal(t, models.ProvenanceRepair, r.Provenance)
			}
		})
	}
}

func TestRepair_PadsShortColumns(t *testing.T) {
	rec := map[string]string{
		"Raw_Date":      "01-04-23\n02-04-23\n03-04-23",
		"Raw_Narration": " A \nB\n",
		"Raw_Debit":     "1\n",
		"Raw_Credit":    "\n2",
		"Raw_Balance":   "9\n11\n11",
	}
	rows, err := Repair([]map[string]string{rec}, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Description)
	assert.Equal(t, "", rows[2].DebitAmount)
	assert.Equal(t, "2", rows[1].CreditAmount)
	assert.Equal(t, "", rows[2].CreditAmount)
	assert.Equal(t, "UNKNOWN_R_00001", rows[0].TransactionID)
}

func TestRepair_Declines(t *testing.T) {
	singleLine := collapsed(3)
	singleLine["Balance"] = "900.00"

	missing := collapsed(3)
	delete(missing, "Description")

	tests := map[string][]map[string]string{
		"empty":       nil,
		"single line": {singleLine},
		"missing":     {missing},
	}
	for name, records := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := Repair(records, "HDFC")
			assert.Nil(t, rows)
			assert.True(t, errors.Is(err, ErrNotRepairable), "got %v", err)
		})
	}
}

func TestRepairFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ab12cd34_april__REJECTS_HDFC.csv")
	content := "Transaction_Date,Description,Debit_Amount,Credit_Amount,Balance\n" +
		"\"01/04/2023\n02/04/2023\",\"ATM\nSALARY\",\"100.00\n\",\"\n500.00\",\"900.00\n1400.00\"\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))

	out, rows, err := RepairFile(in, "HDFC")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ab12cd34_april__RECOVERED_HDFC.csv"), out)
	require.Len(t, rows, 2)

	written, err := writer.ReadTransactionsFile(out)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, "HDFC_R_00002", written[1].TransactionID)
	assert.Equal(t, "500.00", written[1].CreditAmount)
}

func TestRepairFile_NotRepairableWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "x__REJECTS_SBI.csv")
	require.NoError(t, os.WriteFile(in, []byte("Bank_Name,Raw_Date\nSBI,xx\n"), 0o644))

	_, _, err := RepairFile(in, "SBI")
	require.ErrorIs(t, err, ErrNotRepairable)
	_, statErr := os.Stat(filepath.Join(dir, "x__RECOVERED_SBI.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

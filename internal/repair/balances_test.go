package repair

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/writer"
)

func tx(debit, credit, balance string) models.CanonicalTransaction {
	return models.CanonicalTransaction{DebitAmount: debit, CreditAmount: credit, Balance: balance}
}

func TestFillFromBalances(t *testing.T) {
	tests := []struct {
		name              string
		rows              []models.CanonicalTransaction
		debit, credit, bl string
		filled            int
	}{
		{
			name:   "gap was a debit",
			rows:   []models.CanonicalTransaction{tx("0.00", "0.00", "1000.00"), tx("", "", ""), tx("50.00", "0.00", "650.00")},
			debit:  "300.00",
			credit: "0.00",
			bl:     "700.00",
			filled: 1,
		},
		{
			name:   "gap was a credit",
			rows:   []models.CanonicalTransaction{tx("0.00", "0.00", "1000.00"), tx("0.00", "0.00", "0.00"), tx("0.00", "200.00", "1700.00")},
			debit:  "0.00",
			credit: "500.00",
			bl:     "1500.00",
			filled: 1,
		},
		{
			name:   "missing neighbour balance",
			rows:   []models.CanonicalTransaction{tx("0.00", "0.00", ""), tx("", "", ""), tx("50.00", "0.00", "650.00")},
			debit:  "",
			credit: "",
			bl:     "",
		},
		{
			name:   "row already has an amount",
			rows:   []models.CanonicalTransaction{tx("0.00", "0.00", "1000.00"), tx("10.00", "", ""), tx("0.00", "0.00", "990.00")},
			debit:  "10.00",
			credit: "",
			bl:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]models.CanonicalTransaction(nil), tt.rows...)
			got, n := FillFromBalances(tt.rows)
			assert.Equal(t, tt.filled, n)
			assert.Equal(t, tt.debit, got[1].DebitAmount)
			assert.Equal(t, tt.credit, got[1].CreditAmount)
			assert.Equal(t, tt.bl, got[1].Balance)
			assert.Equal(t, before, tt.rows, "input must not change")
		})
	}
}

func TestFillFromBalances_EdgesUntouched(t *testing.T) {
	rows := []models.CanonicalTransaction{tx("", "", ""), tx("", "", "")}
	got, n := FillFromBalances(rows)
	assert.Zero(t, n)
	assert.Equal(t, rows, got)
}

func TestFillFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "s__STD_HDFC.csv")
	rows := []models.CanonicalTransaction{tx("0.00", "0.00", "1000.00"), tx("", "", ""), tx("50.00", "0.00", "650.00")}
	require.NoError(t, writer.WriteCSVFile(in, rows))

	out, n, err := FillFile(in)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "s__STD_HDFC__REPAIRED.csv"), out)

	got, err := writer.ReadTransactionsFile(out)
	require.NoError(t, err)
	assert.Equal(t, "300.00", got[1].DebitAmount)
}

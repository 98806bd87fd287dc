package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chandru1806/MCA/internal/extractor"
)

func TestICICIParser(t *testing.T) {
	header := []string{"S.No", "Value Date", "Transaction Date", "Cheque Number", "Transaction Remarks",
		"Withdrawal Amount (INR)", "Deposit Amount (INR)", "Balance (INR)"}
	page1 := extractor.Table{
		header,
		{"1", "01/04/2023", "01/04/2023", "", "UPI/RAVI KUMAR/\nokaxis/Payment", "1,500.00", "", "8,500.00"},
		{"2", "02/04/2023", "", "", "NEFT-ACME", "", "20,000.00", "28,500.00"},
		{"", "", "", "", "Legends Used in Account Statement", "", "", ""},
	}
	// continuation page without a header row
	page2 := extractor.Table{
		{"3", "03/04/2023", "03/04/2023", "", "ATM/CASH WDL", "2,000.00", "", "26,500.00"},
		{"4", "04/04/2023", "04/04/2023", "", "too short"},
	}
	doc := (&extractor.Pages{}).WithTables(1, page1).WithTables(2, page2)

	rows, err := (&ICICIParser{}).Parse(doc)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "01/04/2023", rows[0].Date)
	assert.Equal(t, "UPI/RAVI KUMAR/ okaxis/Payment", rows[0].Narration)
	assert.Equal(t, "1500.00", rows[0].Debit)
	assert.Equal(t, "8500.00", rows[0].Balance)

	assert.Equal(t, "02/04/2023", rows[1].Date, "falls back to value date")
	assert.Equal(t, "20000.00", rows[1].Credit)

	assert.Equal(t, "ATM/CASH WDL", rows[2].Narration)
}

func TestICICIParser_IgnoresTablesBeforeHeader(t *testing.T) {
	stray := extractor.Table{{"1", "01/04/2023", "01/04/2023", "", "x", "1.00", "", "2.00"}}
	rows, err := (&ICICIParser{}).Parse((&extractor.Pages{}).WithTables(1, stray))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

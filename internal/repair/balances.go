package repair

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/writer"
)

// FillFromBalances infers the amount of rows that lost debit, credit and
// balance during extraction, using the balances on either side. A row is
// only touched when both neighbouring balances are readable. The running
// balance after the gap row is next balance plus next debit minus next
// credit; the gap row's amount is that minus the previous balance.
//
// The input is not modified. The second result counts filled rows.
func FillFromBalances(rows []models.CanonicalTransaction) ([]models.CanonicalTransaction, int) {
	out := make([]models.CanonicalTransaction, len(rows))
	copy(out, rows)

	filled := 0
	for i := 1; i < len(out)-1; i++ {
		r := out[i]
		if !isBlank(r.DebitAmount) || !isBlank(r.CreditAmount) || !isBlank(r.Balance) {
			continue
		}
		prev, ok := amount(out[i-1].Balance)
		if !ok {
			continue
		}
		next, ok := amount(out[i+1].Balance)
		if !ok {
			continue
		}
		nextDebit, _ := amount(out[i+1].DebitAmount)
		nextCredit, _ := amount(out[i+1].CreditAmount)

		balance := next.Add(nextDebit).Sub(nextCredit)
		net := balance.Sub(prev)
		if net.IsZero() {
			continue
		}

		zero := decimal.Zero.StringFixed(2)
		if net.IsNegative() {
			r.DebitAmount, r.CreditAmount = net.Neg().StringFixed(2), zero
		} else {
			r.DebitAmount, r.CreditAmount = zero, net.StringFixed(2)
		}
		r.Balance = balance.StringFixed(2)
		out[i] = r
		filled++
	}
	return out, filled
}

// FillFile applies FillFromBalances to a standardized CSV and writes the
// result beside it.
func FillFile(path string) (string, int, error) {
	rows, err := writer.ReadTransactionsFile(path)
	if err != nil {
		return "", 0, err
	}
	fixed, n := FillFromBalances(rows)
	out := writer.RepairedPath(path)
	if err := writer.WriteCSVFile(out, fixed); err != nil {
		return "", 0, err
	}
	return out, n, nil
}

func amount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func isBlank(s string) bool {
	d, ok := amount(s)
	return !ok || d.IsZero()
}

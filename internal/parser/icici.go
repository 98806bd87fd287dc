package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// ICICIParser handles ICICI Bank statements:
//
//	S.No | Value Date | Transaction Date | Cheque Number | Transaction Remarks |
//	Withdrawal Amount (INR) | Deposit Amount (INR) | Balance (INR)
//
// Grids continue across pages without repeating the header, so once a
// header has been seen later tables are read with the same offsets.
type ICICIParser struct{}

var iciciPatterns = compileAll(
	`\bICICI\s*BANK\b`,
	`Account\s*Statement.*ICICI`,
	`ICICIBANK`,
)

var iciciDate = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

const (
	iciciColSerial = iota
	iciciColValueDate
	iciciColTxnDate
	iciciColCheque
	iciciColRemarks
	iciciColWithdrawal
	iciciColDeposit
	iciciColBalance
	iciciMinColumns
)

func (p *ICICIParser) Bank() models.BankType { return models.BankICICI }

func (p *ICICIParser) Applies(text string) bool { return matchesAny(iciciPatterns, text) }

func (p *ICICIParser) Parse(doc extractor.Document) ([]models.RawRow, error) {
	if doc == nil {
		return nil, errors.New("icici: nil document")
	}

	var rows []models.RawRow
	seenHeader := false
	for _, t := range extractor.AllTables(doc) {
		start := 0
		if h := findHeader(t); h >= 0 {
			seenHeader = true
			start = h + 1
		} else if !seenHeader {
			continue
		}
		for _, raw := range t[start:] {
			if row, ok := iciciRow(raw); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func iciciRow(raw []string) (models.RawRow, bool) {
	if len(raw) < iciciMinColumns {
		return models.RawRow{}, false
	}
	cell := func(i int) string {
		return strings.Join(strings.Fields(cellAt(raw, i)), " ")
	}

	date := cell(iciciColTxnDate)
	if date == "" {
		date = cell(iciciColValueDate)
	}
	if !iciciDate.MatchString(date) {
		return models.RawRow{}, false
	}
	return models.RawRow{
		Date:      date,
		Narration: cell(iciciColRemarks),
		Reference: cell(iciciColCheque),
		Debit:     strings.ReplaceAll(cell(iciciColWithdrawal), ",", ""),
		Credit:    strings.ReplaceAll(cell(iciciColDeposit), ",", ""),
		Balance:   strings.ReplaceAll(cell(iciciColBalance), ",", ""),
	}, true
}

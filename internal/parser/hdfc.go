package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// HDFCParser handles HDFC Bank statements.
//
// The tabular layout is
//
//	Date | Narration | Chq./Ref.No. | Value Dt | Withdrawal Amt. | Deposit Amt. | Closing Balance
//
// When the PDF yields no usable grid the parser falls back to the
// line-wrapped variant: lines are accumulated under each date and the
// trailing run of up to three amounts is read as withdrawal, deposit and
// balance.
type HDFCParser struct{}

var hdfcPatterns = compileAll(
	`\bHDFC\s*BANK\b`,
	`\bHDFC\s*BANK\s*LTD\b`,
	`\bHDFCBANKLTD\b`,
	`\bHDFCBANK\b`,
	`Statement\s*of\s*account.*HDFC`,
)

var (
	hdfcHeaderLine = regexp.MustCompile(`(?i)^Date\s+Narration\s+Chq\./Ref\.No\.\s+ValueDt\s+WithdrawalAmt\.\s+DepositAmt\.\s+ClosingBalance\s*$`)
	// a value date followed by one or two amounts inside the narration
	inlineValueDate = regexp.MustCompile(`(?i)(?:\bValueDt\b\s*)?\b\d{2}/\d{2}/\d{2,4}\b(?:\s+` + numBody + `){1,2}`)
)

// HDFC table column offsets.
const (
	hdfcColDate = iota
	hdfcColNarration
	hdfcColRef
	hdfcColValueDate
	hdfcColWithdrawal
	hdfcColDeposit
	hdfcColBalance
	hdfcMinColumns
)

func (p *HDFCParser) Bank() models.BankType { return models.BankHDFC }

func (p *HDFCParser) Applies(text string) bool { return matchesAny(hdfcPatterns, text) }

func (p *HDFCParser) Parse(doc extractor.Document) ([]models.RawRow, error) {
	if doc == nil {
		return nil, errors.New("hdfc: nil document")
	}
	if rows := p.parseTables(extractor.AllTables(doc)); len(rows) > 0 {
		return rows, nil
	}
	return p.parseLines(extractor.AllLines(doc)), nil
}

func (p *HDFCParser) parseTables(tables []extractor.Table) []models.RawRow {
	var rows []models.RawRow
	for _, t := range tables {
		header := findHeader(t, []string{"narration"})
		if header < 0 {
			continue
		}
		for _, row := range t[header+1:] {
			if len(row) < hdfcMinColumns {
				continue
			}
			date := cellAt(row, hdfcColDate)
			if date == "" || isNoise(date) || !startsWithDate(date) {
				continue
			}
			rows = append(rows, models.RawRow{
				Date:      date,
				Narration: cellAt(row, hdfcColNarration),
				Reference: cellAt(row, hdfcColRef),
				Debit:     stripMoney(cellAt(row, hdfcColWithdrawal)),
				Credit:    stripMoney(cellAt(row, hdfcColDeposit)),
				Balance:   stripMoney(cellAt(row, hdfcColBalance)),
			})
		}
	}
	return rows
}

// parseLines is the line-wrapped variant. Lines before the column header
// are skipped when the header is present.
func (p *HDFCParser) parseLines(lines []string) []models.RawRow {
	start := 0
	for i, ln := range lines {
		if hdfcHeaderLine.MatchString(ln) {
			start = i + 1
			break
		}
	}

	var rows []models.RawRow
	prevBalance := ""
	for _, g := range groupByDate(filterNoise(lines[start:])) {
		row := finalizeGroup(g, prevBalance, cleanHDFCNarration)
		if row.Balance != "" {
			prevBalance = row.Balance
		}
		rows = append(rows, row)
	}
	return rows
}

func cleanHDFCNarration(narr string) string {
	narr = inlineValueDate.ReplaceAllString(narr, "")
	narr = strings.Trim(collapseSpaces(narr), " -:·•|*")
	return cleanFooter(narr)
}

// stripMoney removes grouping commas and the rupee sign from a cell.
func stripMoney(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	return strings.TrimSpace(s)
}

package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// SBIParser handles State Bank of India statements:
//
//	Txn Date | Value Date | Description | Ref No./Cheque No. | Debit | Credit | Balance
//
// The column order differs between SBI statement products, so columns are
// resolved from the header text instead of fixed offsets.
type SBIParser struct{}

var sbiPatterns = compileAll(
	`\bSTATE\s*BANK\s*OF\s*INDIA\b`,
	`\bSBI\b`,
	`Account\s*Statement.*State\s*Bank\s*of\s*India`,
	`Account\s*Statement.*SBI`,
)

var sbiFooters = compileAll(
	`The count of transactions for the selected date range exceeds 299`,
	`Please do not share your ATM`,
	`Bank never asks for such information`,
	`This is a computer generated statement`,
	`PIN \(Personal Identification Number\)`,
	`OTP \(One Time Password\)`,
	`does not require a signature`,
)

var (
	sbiHeaderTxnDate = regexp.MustCompile(`(?i)Txn\s*Date`)
	sbiHeaderBalance = regexp.MustCompile(`(?i)Balance`)
	sbiSummaryDate   = regexp.MustCompile(`(?i)total|closing|opening`)
)

// sbiColumns maps field name to column index, -1 when absent.
type sbiColumns struct {
	date, narration, ref, debit, credit, balance int
}

// mapSBIHeader resolves columns by substring on the normalised header
// cell. The first matching rule wins for each cell.
func mapSBIHeader(header []string) sbiColumns {
	cols := sbiColumns{-1, -1, -1, -1, -1, -1}
	set := func(dst *int, i int) {
		if *dst < 0 {
			*dst = i
		}
	}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		name = strings.NewReplacer(".", "", "/", "").Replace(name)
		switch {
		case strings.Contains(name, "txn") && strings.Contains(name, "date"):
			set(&cols.date, i)
		case strings.Contains(name, "desc"):
			set(&cols.narration, i)
		case strings.Contains(name, "ref") || strings.Contains(name, "cheque"):
			set(&cols.ref, i)
		case strings.Contains(name, "debit"):
			set(&cols.debit, i)
		case strings.Contains(name, "credit"):
			set(&cols.credit, i)
		case strings.Contains(name, "balance"):
			set(&cols.balance, i)
		}
	}
	return cols
}

func (p *SBIParser) Bank() models.BankType { return models.BankSBI }

func (p *SBIParser) Applies(text string) bool { return matchesAny(sbiPatterns, text) }

func (p *SBIParser) Parse(doc extractor.Document) ([]models.RawRow, error) {
	if doc == nil {
		return nil, errors.New("sbi: nil document")
	}
	var rows []models.RawRow
	for _, t := range extractor.AllTables(doc) {
		rows = append(rows, parseSBITable(t)...)
	}
	return rows, nil
}

func parseSBITable(t extractor.Table) []models.RawRow {
	header := -1
	for i, row := range t {
		joined := strings.Join(row, " ")
		if sbiHeaderTxnDate.MatchString(joined) && sbiHeaderBalance.MatchString(joined) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil
	}

	cols := mapSBIHeader(t[header])
	var rows []models.RawRow
	for _, row := range t[header+1:] {
		date := sbiCell(row, cols.date)
		if date == "" || sbiSummaryDate.MatchString(date) || matchesAny(sbiFooters, strings.Join(row, " ")) {
			continue
		}
		rows = append(rows, models.RawRow{
			Date:      date,
			Narration: sbiCell(row, cols.narration),
			Reference: strings.TrimSpace(cellAt(row, cols.ref)),
			Debit:     sbiCell(row, cols.debit),
			Credit:    sbiCell(row, cols.credit),
			Balance:   sbiCell(row, cols.balance),
		})
	}
	return rows
}

// sbiCell drops grouping commas and collapses whitespace, including the
// newlines of wrapped cells.
func sbiCell(row []string, i int) string {
	s := strings.ReplaceAll(cellAt(row, i), ",", "")
	return strings.Join(strings.Fields(s), " ")
}

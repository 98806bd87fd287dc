package parser

import (
	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// GenericParser is the fallback for banks without a dedicated layout. It
// reads lines the way the HDFC line-wrapped variant does, without waiting
// for a column header.
type GenericParser struct {
	bank models.BankType
}

// NewGeneric returns a generic parser that tags rows with bank.
func NewGeneric(bank models.BankType) *GenericParser {
	return &GenericParser{bank: bank}
}

func (p *GenericParser) Bank() models.BankType {
	if p.bank == "" {
		return models.BankUnknown
	}
	return p.bank
}

// Applies is always true: the generic layout is the last resort.
func (p *GenericParser) Applies(string) bool { return true }

func (p *GenericParser) Parse(doc extractor.Document) ([]models.RawRow, error) {
	if doc == nil {
		return nil, errors.New("generic: nil document")
	}
	var rows []models.RawRow
	prevBalance := ""
	for _, g := range groupByDate(filterNoise(extractor.AllLines(doc))) {
		row := finalizeGroup(g, prevBalance, cleanFooter)
		if row.Balance != "" {
			prevBalance = row.Balance
		}
		rows = append(rows, row)
	}
	return rows, nil
}

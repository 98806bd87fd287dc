package parser

import (
	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// StatementParser turns one bank's statement layout into raw rows.
type StatementParser interface {
	// Bank returns the tag written on every row this parser produces.
	Bank() models.BankType
	// Applies reports whether detector text identifies this parser's bank.
	Applies(text string) bool
	// Parse extracts raw rows. An unreadable document yields no rows, not
	// an error; errors are reserved for unexpected failures.
	Parse(doc extractor.Document) ([]models.RawRow, error)
}

// detectionOrder is the order banks are tried in; the first match wins.
var detectionOrder = []StatementParser{
	&HDFCParser{},
	&KotakParser{},
	&SBIParser{},
	&ICICIParser{},
}

// New returns the parser for a bank. Banks without a dedicated layout get
// the generic line parser, tagged with the requested bank.
func New(bank models.BankType) StatementParser {
	switch bank {
	case models.BankHDFC:
		return &HDFCParser{}
	case models.BankKotak:
		return &KotakParser{}
	case models.BankSBI:
		return &SBIParser{}
	case models.BankICICI:
		return &ICICIParser{}
	default:
		return NewGeneric(bank)
	}
}

// DetectText returns the first bank whose patterns match text, or
// BankUnknown.
func DetectText(text string) models.BankType {
	for _, p := range detectionOrder {
		if p.Applies(text) {
			return p.Bank()
		}
	}
	return models.BankUnknown
}

// Detect inspects the first two pages of doc. Extraction failures count as
// empty text.
func Detect(doc extractor.Document) models.BankType {
	return DetectText(extractor.FirstPagesText(doc, 2))
}

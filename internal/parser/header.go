package parser

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Chandru1806/MCA/internal/extractor"
)

// Header tokens for table-grid statements. A header row needs a date
// column and at least one money column.
var (
	dateColumnTokens  = []string{"date"}
	moneyColumnTokens = []string{"withdrawal", "deposit", "balance", "closing", "debit", "credit"}
)

// maxHeaderNoise is how many stray characters a header cell may carry
// around a token and still match it.
const maxHeaderNoise = 4

// normalizeHeader lower-cases a header cell and drops everything but
// letters, so "Withdrawal Amt." and "WithdrawalAmt." compare equal.
func normalizeHeader(cell string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(cell) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cellHasToken matches a header token against one cell, tolerating a few
// interleaved glyphs from spread-out PDF headers.
func cellHasToken(cell, token string) bool {
	c := normalizeHeader(cell)
	if c == "" {
		return false
	}
	if strings.Contains(c, token) {
		return true
	}
	rank := fuzzy.RankMatchNormalizedFold(token, c)
	return rank >= 0 && rank <= maxHeaderNoise
}

func rowHasAny(row []string, tokens []string) bool {
	for _, cell := range row {
		for _, tok := range tokens {
			if cellHasToken(cell, tok) {
				return true
			}
		}
	}
	return false
}

// findHeader returns the index of the first header row in t, or -1. Every
// extra token group must also be present.
func findHeader(t extractor.Table, extra ...[]string) int {
	for i, row := range t {
		if !rowHasAny(row, dateColumnTokens) || !rowHasAny(row, moneyColumnTokens) {
			continue
		}
		ok := true
		for _, group := range extra {
			if !rowHasAny(row, group) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// cellAt returns a trimmed cell, or "" when the row is short.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

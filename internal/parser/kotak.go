package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Chandru1806/MCA/internal/extractor"
	"github.com/Chandru1806/MCA/internal/models"
)

// KotakParser handles Kotak Mahindra Bank statements, which print a single
// tagged amount and a tagged balance at the end of each transaction:
//
//	01-04-2023 UPI/ZOMATO/123456/Payment 500.00(Dr) 9,500.00(Cr)
//
// Narrations wrap freely, so lines are accumulated under each date until
// the tagged tail shows up.
type KotakParser struct{}

var kotakPatterns = compileAll(
	`\bKOTAK\s*MAHINDRA\s*BANK\b`,
	`\bKOTAK\b`,
)

var (
	kotakTail = regexp.MustCompile(
		`(?P<amount>\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?)\s*\((?P<ad>Dr|Cr)\)\s+` +
			`(?P<balance>\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?)\s*\((?P<bd>Dr|Cr)\)`)
	// reference blocks that trail a valid tail and are not narration
	kotakPostTail = regexp.MustCompile(`(?i)(?:` +
		`\s+for\s+pin` +
		`|\s+[A-Z]{3,}\d{6,}(?:/\d{2}[:.]\d{2})?` +
		`|\s+/(?:[A-Za-z0-9-]{3,}(?:\s+[A-Za-z0-9-]{2,})*)\b` +
		`|\s+FASTAG\b` +
		`)+\s*$`)
)

func (p *KotakParser) Bank() models.BankType { return models.BankKotak }

func (p *KotakParser) Applies(text string) bool { return matchesAny(kotakPatterns, text) }

func (p *KotakParser) Parse(doc extractor.Document) ([]models.RawRow, error) {
	if doc == nil {
		return nil, errors.New("kotak: nil document")
	}
	return parseKotakLines(filterNoise(extractor.AllLines(doc))), nil
}

func parseKotakLines(lines []string) []models.RawRow {
	var rows []models.RawRow
	var cur *dateGroup

	// flush emits cur when its tail is complete. With force set, an
	// incomplete group is emitted with empty amounts.
	flush := func(force bool) {
		if cur == nil {
			return
		}
		if row, ok := matchKotakGroup(*cur); ok {
			rows = append(rows, row)
			cur = nil
			return
		}
		if force {
			rows = append(rows, models.RawRow{
				Date:      cur.date,
				Narration: strings.Join(cur.parts, " "),
			})
			cur = nil
		}
	}

	for _, ln := range lines {
		if startsWithDate(ln) {
			flush(true)
			date, rest := splitDate(ln)
			cur = &dateGroup{date: date}
			if rest != "" {
				cur.parts = append(cur.parts, rest)
				flush(false)
			}
			continue
		}
		if cur == nil {
			continue
		}
		cur.parts = append(cur.parts, ln)
		flush(false)
	}
	flush(true)
	return rows
}

// matchKotakGroup tries the joined group, then a tighter join of its last
// two lines, which is how a wrapped tail usually breaks.
func matchKotakGroup(g dateGroup) (models.RawRow, bool) {
	candidates := []string{strings.Join(g.parts, " ")}
	if n := len(g.parts); n >= 2 {
		tight := append(append([]string{}, g.parts[:n-2]...), g.parts[n-2]+g.parts[n-1])
		candidates = append(candidates, strings.Join(tight, " "))
	}

	for _, text := range candidates {
		text = strings.TrimSpace(text)
		if !kotakTail.MatchString(text) {
			continue
		}
		text = strings.TrimSpace(kotakPostTail.ReplaceAllString(text, ""))
		m := kotakTail.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := m[kotakTail.SubexpIndex("amount")] + "(" + m[kotakTail.SubexpIndex("ad")] + ")"
		balance := m[kotakTail.SubexpIndex("balance")] + "(" + m[kotakTail.SubexpIndex("bd")] + ")"
		narr := collapseSpaces(kotakTail.ReplaceAllString(text, " "))
		return models.RawRow{
			Date:       g.date,
			Narration:  narr,
			AmountText: amount,
			Balance:    balance,
		}, true
	}
	return models.RawRow{}, false
}

package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numBody matches one amount token: grouped ("1,234.50", "1,23,456.00"),
// short integers ("500") or plain decimals ("12345.00"). Long bare integers
// are left alone because they are reference numbers.
const numBody = `[+-]?(?:\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?|\d+\.\d{1,2})`

var (
	// 01-07-2025, 02/02/25, 1-Apr-23
	datePattern = regexp.MustCompile(`^\d{1,2}[-/](?:\d{1,2}|[A-Za-z]{3,9})[-/]\d{2,4}\b`)
	numToken    = regexp.MustCompile(`^` + numBody + `$`)
	refTail     = regexp.MustCompile(`(?:UPI-\w+|[A-Za-z]{2,}\d{6,}|[A-Z]{2,}\d{4,}|[0-9]{6,})$`)
	multiSpace  = regexp.MustCompile(`\s{2,}`)
)

// noisePatterns are headers, footers and watermarks repeated on every page.
var noisePatterns = compileAll(
	`^Withdrawal\(Dr\)\s*$`,
	`^Deposit\(Cr\)\s*$`,
	`^Date\s+Narration.*Balance\s*$`,
	`^Date\s+Narration\s+Chq\./Ref\.No\..*Balance`,
	`^Page\s+\d+\s+of\s+\d+\s*$`,
	`^Statement Summary`,
	`^Statement of account`,
	`^Opening Balance`,
	`^Closing Balance`,
	`^Total Withdrawal Amount`,
	`^Total Deposit Amount`,
	`^Withdrawal Count`,
	`^Deposit Count`,
	`^End of Statement`,
	`This is system generated report`,
	`^From\s*:\s*\d{2}/\d{2}/\d{4}.*$`,
	`^\s*Account\s+Branch\b.*$`,
	`^\s*JOINTHOLDERS:.*$`,
	`HDFCBANKLIMITED`,
	`Closingbalanceincludesfunds`,
)

// footerMarkers truncate a narration: everything from the marker on is
// statement boilerplate that got glued to the last row of a page.
var footerMarkers = []string{
	"Contentsofthisstatement",
	"RegisteredOfficeAddress",
	"GSTIN",
	"Stateaccountbranch",
	"Thisstatement",
}

// Keyword hints used to place a lone amount in the debit or credit column.
var (
	debitHints = []string{
		"NWD", "ATM", "POS", "CARD", "DEBIT", "FASTAG", "BILL", "RECHARGE",
		"ZOMATO", "SWIGGY", "AMAZON", "FLIPKART", "IRCTC", "PCD", "CHRG",
	}
	creditHints = []string{
		"NEFT", "IMPS", "CREDIT", "SALARY", "REV", "REFUND", "INTEREST",
		"REWARD", "REVERSAL", "UPI-REV", "REV-UPI",
	}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// isNoise reports whether a line is blank or a known header/footer.
func isNoise(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return true
	}
	return matchesAny(noisePatterns, s)
}

// startsWithDate checks if a line begins with a date token.
func startsWithDate(line string) bool {
	return datePattern.MatchString(strings.TrimSpace(line))
}

// splitDate returns the leading date token and the rest of the line.
func splitDate(line string) (date, rest string) {
	line = strings.TrimSpace(line)
	parts := strings.SplitN(line, " ", 2)
	date = parts[0]
	if len(parts) > 1 {
		rest = strings.TrimSpace(parts[1])
	}
	return date, rest
}

func isAmount(tok string) bool {
	return numToken.MatchString(tok)
}

// trailingAmounts finds the last run of up to limit amount tokens. Tokens
// after the run (reference codes and the like) are skipped over. It
// returns the run and its bounds in tokens.
func trailingAmounts(tokens []string, limit int) (nums []string, start, end int) {
	end = -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if isAmount(tokens[i]) {
			if end < 0 {
				end = i + 1
			}
			start = i
			if end-start == limit {
				break
			}
		} else if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, len(tokens), len(tokens)
	}
	return tokens[start:end], start, end
}

// cleanFooter cuts a narration at the first footer marker.
func cleanFooter(desc string) string {
	for _, m := range footerMarkers {
		if idx := strings.Index(desc, m); idx >= 0 {
			return strings.TrimSpace(desc[:idx])
		}
	}
	return strings.TrimSpace(desc)
}

// splitReference peels a trailing reference number off a narration.
func splitReference(narr string) (string, string) {
	ref := refTail.FindString(narr)
	if ref == "" {
		return narr, ""
	}
	return strings.TrimSpace(narr[:strings.LastIndex(narr, ref)]), ref
}

func containsAnyUpper(text string, needles []string) bool {
	u := strings.ToUpper(text)
	for _, n := range needles {
		if strings.Contains(u, n) {
			return true
		}
	}
	return false
}

func isDebitDescription(narr string) bool  { return containsAnyUpper(narr, debitHints) }
func isCreditDescription(narr string) bool { return containsAnyUpper(narr, creditHints) }

// classifyByHints places a lone amount using the narration. Debit wins
// when both or neither hint set matches.
func classifyByHints(narr string) side {
	if isCreditDescription(narr) && !isDebitDescription(narr) {
		return sideCredit
	}
	return sideDebit
}

type side int

const (
	sideUnknown side = iota
	sideDebit
	sideCredit
)

// classifyByBalance compares the running balance before and after the row.
// It only answers when exactly one direction reconciles to the cent.
func classifyByBalance(amount, balance, prevBalance string) side {
	amt, err1 := toDecimal(amount)
	bal, err2 := toDecimal(balance)
	prev, err3 := toDecimal(prevBalance)
	if err1 != nil || err2 != nil || err3 != nil || amt.IsZero() {
		return sideUnknown
	}
	debitOK := prev.Sub(amt).Equal(bal)
	creditOK := prev.Add(amt).Equal(bal)
	switch {
	case debitOK && !creditOK:
		return sideDebit
	case creditOK && !debitOK:
		return sideCredit
	}
	return sideUnknown
}

// placeAmount decides which column a lone amount belongs to: running
// balance first, keyword hints second.
func placeAmount(narr, amount, balance, prevBalance string) (debit, credit string) {
	s := classifyByBalance(amount, balance, prevBalance)
	if s == sideUnknown {
		s = classifyByHints(narr)
	}
	if s == sideCredit {
		return "", amount
	}
	return amount, ""
}

func toDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return decimal.NewFromString(s)
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

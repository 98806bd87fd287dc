package categorizer

import (
	"regexp"
	"strings"
)

var (
	upiMerchant      = regexp.MustCompile(`upi[/\-][^/\-]+[/\-][^/\-]+[/\-]([^/\-]+)`)
	posMerchant      = regexp.MustCompile(`pos\d+([a-z\s]{3,}?)(?:che|ban|mum|del|hyd|pun|kol)`)
	transferMerchant = regexp.MustCompile(`(?:imps|neft)[/\-][^/\-]+[/\-]([^/\-]+)`)

	nonAlpha = regexp.MustCompile(`[^a-z\s]`)
	spaces   = regexp.MustCompile(`\s+`)
)

// ExtractMerchant pulls the counterparty out of a narration: the fourth
// UPI field, the text between a POS terminal number and a city code, or
// the name after an IMPS/NEFT marker. The result is lower case letters
// and single spaces, or "" when no pattern applies.
func ExtractMerchant(desc string) string {
	lower := strings.ToLower(desc)
	for _, re := range []*regexp.Regexp{upiMerchant, posMerchant, transferMerchant} {
		if m := re.FindStringSubmatch(lower); m != nil {
			name := nonAlpha.ReplaceAllString(m[1], " ")
			return strings.TrimSpace(spaces.ReplaceAllString(name, " "))
		}
	}
	return ""
}

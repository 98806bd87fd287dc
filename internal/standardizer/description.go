package standardizer

import (
	"regexp"
	"strings"
)

const num = `[+-]?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?`

var (
	hdfcAddress = regexp.MustCompile(`(?i)HDFC\s*Bank\s*House.*?Mumbai\s*\d{6}`)

	// Everything from a statement footer onwards is boilerplate.
	footerStart = regexp.MustCompile(`(?i)(HDFC\s*BANK\s*LIMITED|Registered\s+Office|State\s+account\s+branch\s+GSTN|GSTIN\s+number|GSTN\s*:)`)

	inlineDateAmountBalance = regexp.MustCompile(`\b\d{2}/\d{2}/\d{2,4}\s+` + num + `\s+` + num + `\b`)
	valueDateTail           = regexp.MustCompile(`(?i)\s+\d{2}/\d{2}/\d{2,4}(?:\s+` + num + `){1,2}\s*$`)
	trailingDate            = regexp.MustCompile(`\s+\d{2}[-/]\d{2}[-/]\d{2,4}\s*$`)
	systemTail              = regexp.MustCompile(`(?i)(?:\s+for\s+pin|\s+[A-Z]{3,}\d{6,}(?:/\d{2}[:.]\d{2})?|\s+/(?:[A-Za-z0-9-]{3,}(?:\s+[A-Za-z0-9-]{2,})*)\b)+\s*$`)
	trailingNumber          = regexp.MustCompile(`\s+` + num + `\s*$`)
	runOfSpace              = regexp.MustCompile(`\s{2,}`)
)

// CleanDescription strips statement boilerplate from a narration: the
// registered office address, footer and GST text, value-date and amount
// columns that leaked into the text, trailing system references and lone
// trailing numbers.
func CleanDescription(s string) string {
	s = hdfcAddress.ReplaceAllString(s, "")
	if loc := footerStart.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = inlineDateAmountBalance.ReplaceAllString(s, "")
	s = valueDateTail.ReplaceAllString(s, "")
	s = trailingDate.ReplaceAllString(s, "")
	s = systemTail.ReplaceAllString(s, "")
	s = trailingNumber.ReplaceAllString(s, "")
	s = strings.Trim(s, " -:·•|")
	return strings.TrimSpace(runOfSpace.ReplaceAllString(s, " "))
}

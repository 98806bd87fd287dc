package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the output layout for Transaction_Date.
const ISODate = "2006-01-02"

// DateLayouts are tried in order after the input has been normalised to
// dash-separated form; the first that parses wins.
var DateLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2-January-06",
	"2-January-2006",
	"2-1-06",
	"2-1-2006",
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	dashes     = strings.NewReplacer("–", "-", "—", "-", "/", "-")
	moneyNoise = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "INR", "", " ", "", "\u00a0", "")
)

// ParseDate converts a statement date to ISO form, or returns "" when no
// layout matches.
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = dashes.Replace(whitespace.ReplaceAllString(s, "-"))
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate)
		}
	}
	return ""
}

// NormalizeAmount renders a numeric string with exactly two fraction
// digits. Grouping commas and currency marks are ignored; anything that
// is not a number becomes "".
func NormalizeAmount(s string) string {
	s = moneyNoise.Replace(strings.TrimSpace(s))
	if s == "" || s == "+" || s == "-" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return d.StringFixed(2)
}

// isZeroOrEmpty is true for "" and any normalised zero.
func isZeroOrEmpty(normalized string) bool {
	if normalized == "" {
		return true
	}
	d, err := decimal.NewFromString(normalized)
	return err == nil && d.IsZero()
}

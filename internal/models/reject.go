package models

import "strings"

// Reason is a rejection tag from a closed vocabulary.
type Reason string

const (
	ReasonBadDate         Reason = "bad_date"
	ReasonBadBalance      Reason = "bad_balance"
	ReasonBothAmounts     Reason = "both_amounts_present"
	ReasonParserException Reason = "parser_exception"
	ReasonMissingAmounts  Reason = "missing_amounts"
)

const reasonSeparator = ";"

// JoinReasons renders a reason set the way it appears in the Reason column.
func JoinReasons(reasons []Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, reasonSeparator)
}

// SplitReasons is the inverse of JoinReasons.
func SplitReasons(s string) []Reason {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []Reason
	for _, p := range strings.Split(s, reasonSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Reason(p))
		}
	}
	return out
}

// RejectedRow keeps every raw field of a row that failed validation along
// with the validator's normalised guesses. Detail and Trace are only set on
// the diagnostic row emitted for a parser exception.
type RejectedRow struct {
	BankName       string `csv:"Bank_Name" json:"bankName"`
	RawDate        string `csv:"Raw_Date" json:"rawDate"`
	RawNarration   string `csv:"Raw_Narration" json:"rawNarration"`
	RawDebit       string `csv:"Raw_Debit" json:"rawDebit,omitempty"`
	RawAmount      string `csv:"Raw_Amount" json:"rawAmount,omitempty"`
	RawCredit      string `csv:"Raw_Credit" json:"rawCredit,omitempty"`
	RawBalance     string `csv:"Raw_Balance" json:"rawBalance"`
	Reason         string `csv:"Reason" json:"reason"`
	SuggestDate    string `csv:"Suggest_Date" json:"suggestDate"`
	SuggestDebit   string `csv:"Suggest_Debit" json:"suggestDebit"`
	SuggestCredit  string `csv:"Suggest_Credit" json:"suggestCredit"`
	SuggestBalance string `csv:"Suggest_Balance" json:"suggestBalance"`
	Detail         string `csv:"Detail" json:"detail,omitempty"`
	Trace          string `csv:"Trace" json:"trace,omitempty"`
}

// Reasons returns the parsed reason set.
func (r RejectedRow) Reasons() []Reason {
	return SplitReasons(r.Reason)
}

// HasReason reports whether reason is part of the row's reason set.
func (r RejectedRow) HasReason(reason Reason) bool {
	for _, got := range r.Reasons() {
		if got == reason {
			return true
		}
	}
	return false
}

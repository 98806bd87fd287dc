package models

import "strings"

// BankType identifies the issuing bank of a statement.
type BankType string

const (
	BankHDFC    BankType = "HDFC"
	BankKotak   BankType = "KOTAK"
	BankSBI     BankType = "SBI"
	BankICICI   BankType = "ICICI"
	BankUnknown BankType = "UNKNOWN"
)

// ParseBankType normalises a user-supplied bank name. Empty input maps to
// BankUnknown; anything else is upper-cased and kept, so GENERIC statements
// can still carry their own tag (e.g. AXIS).
func ParseBankType(s string) BankType {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return BankUnknown
	}
	return BankType(s)
}

// RawRow is the bank-specific intermediate record produced by a parser.
// AmountText carries a Dr/Cr-tagged amount for formats without separate
// debit and credit columns.
type RawRow struct {
	Date       string `json:"date"`
	Narration  string `json:"narration"`
	Reference  string `json:"reference,omitempty"`
	Debit      string `json:"debit,omitempty"`
	Credit     string `json:"credit,omitempty"`
	AmountText string `json:"amount,omitempty"`
	Balance    string `json:"balance"`
}

// CanonicalTransaction is one row of the standardized table.
type CanonicalTransaction struct {
	TransactionID   string `csv:"Transaction_ID" json:"transactionId"`
	TransactionDate string `csv:"Transaction_Date" json:"transactionDate"`
	Description     string `csv:"Description" json:"description"`
	DebitAmount     string `csv:"Debit_Amount" json:"debitAmount"`
	CreditAmount    string `csv:"Credit_Amount" json:"creditAmount"`
	Balance         string `csv:"Balance" json:"balance"`
	BankName        string `csv:"Bank_Name" json:"bankName"`
}

// RecoveredRow has the standardized shape but only ever comes out of the
// repair engine.
type RecoveredRow struct {
	CanonicalTransaction
	Provenance string `csv:"-" json:"provenance"`
}

// ProvenanceRepair marks rows rebuilt from a collapsed reject table.
const ProvenanceRepair = "repair"

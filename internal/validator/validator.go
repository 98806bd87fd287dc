// Package validator decides, row by row, whether a parsed statement row
// can enter the standardized table. Every row comes back as a Result that
// is either accepted or rejected with reasons; nothing is dropped.
package validator

import (
	"regexp"
	"strings"

	"github.com/Chandru1806/MCA/internal/models"
)

// zeroAmount fills an absent side of an accepted row.
const zeroAmount = "0.00"

// Result is the outcome for one raw row. Row is set when OK, Reject
// otherwise. Row has no TransactionID yet.
type Result struct {
	OK     bool
	Row    models.CanonicalTransaction
	Reject models.RejectedRow
}

// Validator applies one bank family's acceptance rules.
type Validator interface {
	Validate(row models.RawRow) Result
}

// ForBank returns the validator for a bank family.
func ForBank(bank models.BankType) Validator {
	name := string(bank)
	switch bank {
	case models.BankKotak:
		return &KotakValidator{Bank: name}
	case models.BankSBI:
		return &HDFCLikeValidator{Bank: name}
	case models.BankICICI:
		return &ICICIValidator{HDFCLikeValidator{Bank: name}}
	default:
		return &HDFCLikeValidator{Bank: name, AppendReference: true}
	}
}

// ValidateAll runs v over rows, splitting accepted from rejected in input
// order.
func ValidateAll(v Validator, rows []models.RawRow) ([]models.CanonicalTransaction, []models.RejectedRow) {
	var ok []models.CanonicalTransaction
	var rejected []models.RejectedRow
	for _, r := range rows {
		res := v.Validate(r)
		if res.OK {
			ok = append(ok, res.Row)
		} else {
			rejected = append(rejected, res.Reject)
		}
	}
	return ok, rejected
}

// HDFCLikeValidator handles statements with separate debit and credit
// columns (HDFC, SBI and the generic layout). A row with both sides
// populated is ambiguous and rejected.
type HDFCLikeValidator struct {
	Bank string
	// AppendReference adds the cheque/reference number to the description.
	AppendReference bool
}

func (v *HDFCLikeValidator) Validate(raw models.RawRow) Result {
	return v.validate(raw, nil)
}

// validate runs the shared checks; extra may add family-specific reasons.
func (v *HDFCLikeValidator) validate(raw models.RawRow, extra func(debit, credit string) []models.Reason) Result {
	date := strings.TrimSpace(raw.Date)
	narr := strings.TrimSpace(raw.Narration)
	if v.AppendReference {
		narr = strings.TrimSpace(narr + " " + strings.TrimSpace(raw.Reference))
	}
	rawDebit := strings.TrimSpace(raw.Debit)
	rawCredit := strings.TrimSpace(raw.Credit)
	rawBalance := strings.TrimSpace(raw.Balance)

	iso := ParseDate(date)
	debit := NormalizeAmount(rawDebit)
	credit := NormalizeAmount(rawCredit)
	balance := NormalizeAmount(rawBalance)

	var reasons []models.Reason
	if iso == "" {
		reasons = append(reasons, models.ReasonBadDate)
	}
	if balance == "" {
		reasons = append(reasons, models.ReasonBadBalance)
	}
	if !isZeroOrEmpty(debit) && !isZeroOrEmpty(credit) {
		reasons = append(reasons, models.ReasonBothAmounts)
	}
	if extra != nil {
		reasons = append(reasons, extra(debit, credit)...)
	}

	if len(reasons) > 0 {
		return Result{Reject: models.RejectedRow{
			BankName:       v.Bank,
			RawDate:        date,
			RawNarration:   narr,
			RawDebit:       rawDebit,
			RawCredit:      rawCredit,
			RawBalance:     rawBalance,
			Reason:         models.JoinReasons(reasons),
			SuggestDate:    iso,
			SuggestDebit:   debit,
			SuggestCredit:  credit,
			SuggestBalance: balance,
		}}
	}
	return accepted(v.Bank, iso, narr, debit, credit, balance)
}

// ICICIValidator adds a missing_amounts check: ICICI always prints one
// of withdrawal or deposit, so a row with neither is a broken extraction.
type ICICIValidator struct {
	HDFCLikeValidator
}

func (v *ICICIValidator) Validate(raw models.RawRow) Result {
	return v.validate(raw, func(debit, credit string) []models.Reason {
		if isZeroOrEmpty(debit) && isZeroOrEmpty(credit) {
			return []models.Reason{models.ReasonMissingAmounts}
		}
		return nil
	})
}

var drCrTag = regexp.MustCompile(`(?i)\((Dr|Cr)\)`)

// KotakValidator handles the single tagged-amount format. The Dr/Cr tag
// decides the side, so the dual-amount check does not apply.
type KotakValidator struct {
	Bank string
}

// SplitTaggedAmount routes "500.00(Dr)" to debit and "500.00(Cr)" to
// credit. Untagged amounts are debits.
func SplitTaggedAmount(s string) (debit, credit string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	tag := ""
	if m := drCrTag.FindStringSubmatch(s); m != nil {
		tag = strings.ToLower(m[1])
		s = drCrTag.ReplaceAllString(s, "")
	}
	val := NormalizeAmount(s)
	if val == "" {
		return "", ""
	}
	if tag == "cr" {
		return "", val
	}
	return val, ""
}

func stripBalanceTag(s string) string {
	return NormalizeAmount(drCrTag.ReplaceAllString(s, ""))
}

func (v *KotakValidator) Validate(raw models.RawRow) Result {
	date := strings.TrimSpace(raw.Date)
	narr := strings.TrimSpace(raw.Narration)
	amount := strings.TrimSpace(raw.AmountText)
	rawBalance := strings.TrimSpace(raw.Balance)

	iso := ParseDate(date)
	debit, credit := SplitTaggedAmount(amount)
	balance := stripBalanceTag(rawBalance)

	var reasons []models.Reason
	if iso == "" {
		reasons = append(reasons, models.ReasonBadDate)
	}
	if balance == "" {
		reasons = append(reasons, models.ReasonBadBalance)
	}

	if len(reasons) > 0 {
		return Result{Reject: models.RejectedRow{
			BankName:       v.Bank,
			RawDate:        date,
			RawNarration:   narr,
			RawAmount:      amount,
			RawBalance:     rawBalance,
			Reason:         models.JoinReasons(reasons),
			SuggestDate:    iso,
			SuggestDebit:   debit,
			SuggestCredit:  credit,
			SuggestBalance: balance,
		}}
	}
	return accepted(v.Bank, iso, narr, debit, credit, balance)
}

func accepted(bank, iso, narr, debit, credit, balance string) Result {
	if debit == "" {
		debit = zeroAmount
	}
	if credit == "" {
		credit = zeroAmount
	}
	return Result{OK: true, Row: models.CanonicalTransaction{
		TransactionDate: iso,
		Description:     narr,
		DebitAmount:     debit,
		CreditAmount:    credit,
		Balance:         balance,
		BankName:        bank,
	}}
}

// Package standardizer turns parsed rows into the canonical transaction
// table and its companion reject table.
package standardizer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Chandru1806/MCA/internal/models"
	"github.com/Chandru1806/MCA/internal/validator"
)

// Standardizer validates and cleans rows for one bank. NewID is used for
// Transaction_ID and may be replaced in tests.
type Standardizer struct {
	NewID func() string
}

// New returns a Standardizer that assigns 12-character random hex IDs.
func New() *Standardizer {
	return &Standardizer{NewID: NewTransactionID}
}

// NewTransactionID returns the first 12 hex digits of a random UUID.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Standardize is shorthand for New().Standardize.
func Standardize(rows []models.RawRow, bank models.BankType) ([]models.CanonicalTransaction, []models.RejectedRow) {
	return New().Standardize(rows, bank)
}

// Standardize splits rows into accepted and rejected sets. Every input
// row lands in exactly one of the two results.
func (s *Standardizer) Standardize(rows []models.RawRow, bank models.BankType) ([]models.CanonicalTransaction, []models.RejectedRow) {
	bank = models.ParseBankType(string(bank))
	accepted, rejected := validator.ValidateAll(validator.ForBank(bank), rows)

	std := make([]models.CanonicalTransaction, 0, len(accepted))
	for _, t := range accepted {
		t.TransactionID = s.NewID()
		t.Description = CleanDescription(t.Description)
		t.DebitAmount = validator.NormalizeAmount(t.DebitAmount)
		t.CreditAmount = validator.NormalizeAmount(t.CreditAmount)
		t.Balance = validator.NormalizeAmount(t.Balance)
		t.BankName = string(bank)
		std = append(std, t)
	}
	for i := range rejected {
		rejected[i].BankName = string(bank)
	}
	return std, rejected
}

// Quality summarises one standardize run.
type Quality struct {
	Standardized int
	Rejected     int
}

// Total is the number of raw rows accounted for.
func (q Quality) Total() int { return q.Standardized + q.Rejected }

// RejectRate is the rejected share in percent, 0 for an empty statement.
func (q Quality) RejectRate() float64 {
	if q.Total() == 0 {
		return 0
	}
	return float64(q.Rejected) / float64(q.Total()) * 100
}

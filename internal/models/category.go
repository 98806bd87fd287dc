package models

// Category names. The set is closed; rule sets may only reference these.
const (
	CategoryFood             = "Food"
	CategoryShopping         = "Shopping"
	CategoryTravel           = "Travel"
	CategoryBills            = "Bills"
	CategoryEntertainment    = "Entertainment"
	CategorySubscriptions    = "Subscriptions"
	CategoryHealth           = "Health"
	CategoryGroceries        = "Groceries"
	CategoryEducation        = "Education"
	CategoryFuel             = "Fuel"
	CategoryPerson           = "Person"
	CategoryATM              = "ATM"
	CategorySalary           = "Salary"
	CategoryInterest         = "Interest"
	CategoryRefund           = "Refund"
	CategoryInternalTransfer = "Internal_Transfer"
	CategoryOther            = "Other"
)

// Categories lists the vocabulary in display order.
var Categories = []string{
	CategoryFood, CategoryShopping, CategoryTravel, CategoryBills,
	CategoryEntertainment, CategorySubscriptions, CategoryHealth,
	CategoryGroceries, CategoryEducation, CategoryFuel, CategoryPerson,
	CategoryATM, CategorySalary, CategoryInterest, CategoryRefund,
	CategoryInternalTransfer, CategoryOther,
}

// IsCategory reports whether name belongs to the category vocabulary.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ClassificationMethod records which layer decided a category.
type ClassificationMethod string

const (
	MethodRuleBased ClassificationMethod = "RULE_BASED"
	MethodHybrid    ClassificationMethod = "HYBRID"
)

// CategoryPrediction is the per-transaction output of a categorization run.
type CategoryPrediction struct {
	TransactionID       string               `json:"transactionId"`
	CategoryName        string               `json:"category"`
	Confidence          float64              `json:"confidence"`
	Method              ClassificationMethod `json:"classificationMethod"`
	RuleBasedPrediction string               `json:"ruleBasedPrediction"`
	MLPrediction        string               `json:"mlPrediction,omitempty"`
	Merchant            string               `json:"merchant,omitempty"`
}

// CategorizedTransaction is a standardized row with Category and Confidence
// appended, used for the categorized CSV artifact.
type CategorizedTransaction struct {
	TransactionID   string  `csv:"Transaction_ID"`
	TransactionDate string  `csv:"Transaction_Date"`
	Description     string  `csv:"Description"`
	DebitAmount     string  `csv:"Debit_Amount"`
	CreditAmount    string  `csv:"Credit_Amount"`
	Balance         string  `csv:"Balance"`
	BankName        string  `csv:"Bank_Name"`
	Category        string  `csv:"Category"`
	Confidence      float64 `csv:"Confidence"`
}

// Categorized joins a transaction with its prediction.
func Categorized(t CanonicalTransaction, p CategoryPrediction) CategorizedTransaction {
	return CategorizedTransaction{
		TransactionID:   t.TransactionID,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		DebitAmount:     t.DebitAmount,
		CreditAmount:    t.CreditAmount,
		Balance:         t.Balance,
		BankName:        t.BankName,
		Category:        p.CategoryName,
		Confidence:      p.Confidence,
	}
}

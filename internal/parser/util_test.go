package parser

import (
	"reflect"
	"testing"
)

func TestStartsWithDate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"01/04/23 UPI-ZOMATO", true},
		{"01-04-2023 NEFT CR", true},
		{"1-Apr-23 POS 416021XXXXXX", true},
		{"  15/01/2024 CARD PAYMENT", true},
		{"UPI 01/04/23", false},
		{"1,234.50 9,000.00", false},
		{"not a date line", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := startsWithDate(tt.input)
			if got != tt.expected {
				t.Errorf("startsWithDate(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1,234.50", true},
		{"1,23,456.00", true},
		{"12345.00", true},
		{"500", true},
		{"-25.9", true},
		{"123456", false},
		{"CHE004", false},
		{"9,500.00(Cr)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isAmount(tt.input); got != tt.expected {
				t.Errorf("isAmount(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrailingAmounts(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		wantNums  []string
		wantStart int
		wantEnd   int
	}{
		{
			name:      "amount and balance",
			tokens:    []string{"UPI-ZOMATO", "ORDER", "250.00", "9,750.00"},
			wantNums:  []string{"250.00", "9,750.00"},
			wantStart: 2, wantEnd: 4,
		},
		{
			name:      "caps at three",
			tokens:    []string{"NEFT", "1.00", "2.00", "3.00", "4.00"},
			wantNums:  []string{"2.00", "3.00", "4.00"},
			wantStart: 2, wantEnd: 5,
		},
		{
			name:      "skips trailing reference",
			tokens:    []string{"POS", "10.00", "90.00", "CHE004"},
			wantNums:  []string{"10.00", "90.00"},
			wantStart: 1, wantEnd: 3,
		},
		{
			name:      "no amounts",
			tokens:    []string{"OPENING", "NOTE"},
			wantNums:  nil,
			wantStart: 2, wantEnd: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nums, start, end := trailingAmounts(tt.tokens, 3)
			if !reflect.DeepEqual(nums, tt.wantNums) {
				t.Errorf("nums: got %v, want %v", nums, tt.wantNums)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("bounds: got [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPlaceAmount(t *testing.T) {
	tests := []struct {
		name       string
		narr       string
		amount     string
		balance    string
		prev       string
		wantDebit  string
		wantCredit string
	}{
		{"credit hint", "NEFT CR SALARY APRIL", "50,000.00", "60,000.00", "", "", "50,000.00"},
		{"debit hint", "POS 416021 AMAZON", "999.00", "9,001.00", "", "999.00", ""},
		{"both hints default to debit", "CARD REFUND", "10.00", "100.00", "", "10.00", ""},
		{"no hint defaults to debit", "CHQ 000123", "10.00", "100.00", "", "10.00", ""},
		{"balance beats hints", "NEFT CHARGES", "10.00", "90.00", "100.00", "10.00", ""},
		{"balance says credit", "ATM CASH DEPOSIT", "10.00", "110.00", "100.00", "", "10.00"},
		{"unreconciled balance falls back to hints", "IMPS IN", "10.00", "500.00", "100.00", "", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := placeAmount(tt.narr, tt.amount, tt.balance, tt.prev)
			if d != tt.wantDebit || c != tt.wantCredit {
				t.Errorf("got debit=%q credit=%q, want debit=%q credit=%q", d, c, tt.wantDebit, tt.wantCredit)
			}
		})
	}
}

func TestIsNoise(t *testing.T) {
	noisy := []string{
		"",
		"Page 2 of 7",
		"Opening Balance 1,000.00",
		"Statement of account for the period",
		"  JOINTHOLDERS: A B",
		"HDFCBANKLIMITED",
	}
	for _, ln := range noisy {
		if !isNoise(ln) {
			t.Errorf("isNoise(%q) = false, want true", ln)
		}
	}
	if isNoise("01/04/23 UPI-ZOMATO 250.00 9,750.00") {
		t.Error("transaction line treated as noise")
	}
}

func TestSplitReference(t *testing.T) {
	tests := []struct {
		narr, wantNarr, wantRef string
	}{
		{"UPI-ZOMATO ORDER 0000412345678", "UPI-ZOMATO ORDER", "0000412345678"},
		{"NEFT CR HDFC0001234", "NEFT CR", "HDFC0001234"},
		{"ATM WDL", "ATM WDL", ""},
	}
	for _, tt := range tests {
		narr, ref := splitReference(tt.narr)
		if narr != tt.wantNarr || ref != tt.wantRef {
			t.Errorf("splitReference(%q) = (%q, %q), want (%q, %q)", tt.narr, narr, ref, tt.wantNarr, tt.wantRef)
		}
	}
}

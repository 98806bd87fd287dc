package categorizer

import "testing"

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"UPI/P2M/312345678901/SWIGGY LIMITED/UPI", "swiggy limited"},
		{"UPI-DR-312345678901-RAVI.KUMAR-SBIN", "ravi kumar"},
		{"POS4160211234 DMART AVENUE CHENNAI", "dmart avenue"},
		{"IMPS/123456/RAVI KUMAR/SBIN", "ravi kumar"},
		{"NEFT-N12345-ACME PAYROLL-HDFC", "acme payroll"},
		{"NEFT CR ACME", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractMerchant(tt.desc); got != tt.want {
			t.Errorf("ExtractMerchant(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

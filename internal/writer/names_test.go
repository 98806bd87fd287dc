package writer

import "testing"

func TestArtifactNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{StandardizedName("ab12cd34", "april", "HDFC"), "ab12cd34_april__STD_HDFC.csv"},
		{RejectsName("ab12cd34", "april", "HDFC"), "ab12cd34_april__REJECTS_HDFC.csv"},
		{WorkbookName("ab12cd34", "april", "SBI"), "ab12cd34_april__SBI.xlsx"},
		{RecoveredPath("/out/ab12cd34_april__REJECTS_HDFC.csv"), "/out/ab12cd34_april__RECOVERED_HDFC.csv"},
		{RecoveredPath("/out/rejects.csv"), "/out/rejects__RECOVERED.csv"},
		{RepairedPath("/out/x__STD_HDFC.csv"), "/out/x__STD_HDFC__REPAIRED.csv"},
		{CategorizedPath("/out/x__STD_HDFC.csv"), "/out/x__STD_HDFC_categorized.csv"},
		{CategorizedPath("std"), "std_categorized.csv"},
		{BaseName("/in/April Statement.pdf"), "April Statement"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

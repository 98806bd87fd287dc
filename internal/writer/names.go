package writer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Chandru1806/MCA/internal/models"
)

const (
	rejectsMarker   = "__REJECTS_"
	recoveredMarker = "__RECOVERED_"
)

// StandardizedName is the file name of a statement's standardized table.
// The batch prefix keeps concurrent batches from colliding.
func StandardizedName(batch, base string, bank models.BankType) string {
	return fmt.Sprintf("%s_%s__STD_%s.csv", batch, base, bank)
}

// RejectsName is the file name of a statement's reject table.
func RejectsName(batch, base string, bank models.BankType) string {
	return fmt.Sprintf("%s_%s%s%s.csv", batch, base, rejectsMarker, bank)
}

// WorkbookName is the file name of the combined XLSX export.
func WorkbookName(batch, base string, bank models.BankType) string {
	return fmt.Sprintf("%s_%s__%s.xlsx", batch, base, bank)
}

// RecoveredPath derives the repair output path from a reject table path.
func RecoveredPath(rejectsPath string) string {
	if strings.Contains(filepath.Base(rejectsPath), rejectsMarker) {
		dir, name := filepath.Split(rejectsPath)
		return dir + strings.Replace(name, rejectsMarker, recoveredMarker, 1)
	}
	return withSuffix(rejectsPath, "__RECOVERED")
}

// RepairedPath is the output path of a balance-gap fill.
func RepairedPath(path string) string {
	return withSuffix(path, "__REPAIRED")
}

// CategorizedPath is the categorized copy of a standardized table.
func CategorizedPath(path string) string {
	return withSuffix(path, "_categorized")
}

// BaseName strips directory and extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix + ext
}

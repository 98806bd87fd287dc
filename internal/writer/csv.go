package writer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/Chandru1806/MCA/internal/models"
)

// WriteCSV writes rows, a slice of csv-tagged structs, with a header line.
// An empty slice still produces the header.
func WriteCSV(out io.Writer, rows any) error {
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to a CSV file at the given path.
func WriteCSVFile(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, rows)
}

// ReadCSVMaps reads a CSV with a header line into one map per record,
// keyed by column name.
func ReadCSVMaps(in io.Reader) ([]map[string]string, error) {
	records, err := gocsv.CSVToMaps(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// ReadCSVMapsFile is ReadCSVMaps over a file.
func ReadCSVMapsFile(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return ReadCSVMaps(bytes.NewReader(trimBOM(data)))
}

// ReadTransactions reads a standardized CSV.
func ReadTransactions(in io.Reader) ([]models.CanonicalTransaction, error) {
	var rows []models.CanonicalTransaction
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse standardized CSV: %w", err)
	}
	return rows, nil
}

// ReadTransactionsFile is ReadTransactions over a file.
func ReadTransactionsFile(path string) ([]models.CanonicalTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return ReadTransactions(bytes.NewReader(trimBOM(data)))
}

// Spreadsheet tools often save CSV with a UTF-8 byte order mark.
func trimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}

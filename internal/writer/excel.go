package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/Chandru1806/MCA/internal/models"
)

// Sheet names in the statement workbook.
const (
	SheetStandardized = "Standardized"
	SheetRejected     = "Rejected"
)

// WriteWorkbook writes the standardized and reject tables of one statement
// as two sheets of an XLSX workbook. Column order matches the CSV files.
func WriteWorkbook(out io.Writer, std []models.CanonicalTransaction, rejected []models.RejectedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStandardized); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRejected); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := fillSheet(f, SheetStandardized, std); err != nil {
		return err
	}
	if err := fillSheet(f, SheetRejected, rejected); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteWorkbookFile writes the workbook to path.
func WriteWorkbookFile(path string, std []models.CanonicalTransaction, rejected []models.RejectedRow) error {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, std, rejected); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// fillSheet lays rows out through the same csv tags the CSV files use, so
// both artifacts always agree on columns.
func fillSheet(f *excelize.File, sheet string, rows any) error {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", sheet, err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", sheet, err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ReadSheet returns the rows of one workbook sheet, header first.
func ReadSheet(in io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
